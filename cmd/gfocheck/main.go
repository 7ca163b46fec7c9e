// gfocheck validates an ontology file and the activity mapping without
// starting the server: it parses the file, checks that every mapped
// class is declared, and checks that every mapping entry produces a
// well-formed query.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/antifraudworks/schemefinder/internal/core"
	"github.com/antifraudworks/schemefinder/internal/driver"
	"github.com/antifraudworks/schemefinder/internal/ontology"
)

func main() {
	ontologyPath := flag.String("ontology", "gfo_turtle.ttl", "path to the ontology file")
	activitiesPath := flag.String("activities", "", "optional activities TOML file (defaults to the built-in table)")
	flag.Parse()

	var (
		activities *core.ActivityMap
		err        error
	)
	if *activitiesPath != "" {
		activities, err = core.LoadActivities(*activitiesPath)
	} else {
		activities, err = core.NewActivityMap(core.DefaultActivities())
	}
	if err != nil {
		log.Fatalf("Invalid activity mapping: %v", err)
	}
	fmt.Printf("Activity mapping: %d entries\n", activities.Len())

	failed := false
	for _, e := range activities.Entries() {
		if _, err := driver.BuildSchemeQuery(e.Class); err != nil {
			fmt.Printf("FAIL query for %q (%s): %v\n", e.Label, e.Class, err)
			failed = true
		}
	}
	if !failed {
		fmt.Println("All mapping entries produce a well-formed scheme query")
	}

	g, err := ontology.LoadFile(*ontologyPath)
	if err != nil {
		log.Fatalf("Failed to load ontology: %v", err)
	}
	fmt.Printf("Ontology: %s (%d triples, %d classes)\n", *ontologyPath, g.Len(), len(g.Classes()))

	if unknown := activities.UnknownClasses(g); len(unknown) > 0 {
		fmt.Println("Mapped classes absent from the ontology:")
		for _, c := range unknown {
			fmt.Printf("  - %s\n", c)
		}
		failed = true
	} else {
		fmt.Println("All mapped classes are declared in the ontology")
	}

	if failed {
		os.Exit(1)
	}
}
