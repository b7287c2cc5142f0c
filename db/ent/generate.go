package main

import (
	"log"

	"entgo.io/ent/entc"
	"entgo.io/ent/entc/gen"
)

// Run from the module root: go run db/ent/generate.go
func main() {
	err := entc.Generate(
		"./db/ent/schema",
		&gen.Config{
			Target:  "gen/ent",
			Package: "github.com/haldkarsurbhi/risk-analyser-backend/gen/ent",
		},
	)
	if err != nil {
		log.Fatal(err)
	}
}