/*
Package canvass is a guided conversational feedback engine.

It walks a respondent through an ordered catalog of questions, validates each
raw answer into a typed value, reports progress and achievements, and finally
hands a flat answer record to a pluggable sink (Redis, MongoDB, HTTP collector,
files or memory).

# Concept

The engine is a pure state machine. Every operation takes a *domain.State and
returns a new one, so a host (terminal, HTTP server, MCP agent) owns the
session and decides where it lives. The same catalog can be presented as a
chat, a wizard, a single form or a branching assistant; the variant only
changes navigation and whether a transcript is kept.

# Usage

	package main

	import (
		"context"
		"fmt"
		"log"

		"github.com/aretw0/canvass"
		"github.com/aretw0/canvass/pkg/domain"
	)

	func main() {
		ctx := context.Background()
		eng := canvass.New()

		state := eng.Start(ctx, domain.VariantWizard)
		for !eng.IsComplete(state) {
			q, _ := eng.CurrentQuestion(state)
			fmt.Println(q.Prompt)

			next, err := eng.SubmitAnswer(ctx, state, readLine())
			if domain.IsValidation(err) {
				fmt.Println(err)
				continue
			}
			state = next
		}

		id, err := eng.Finalize(ctx, state)
		if err != nil {
			log.Fatal(err)
		}
		fmt.Println("recorded", id)
	}

The runner package implements this loop for terminals and JSON pipes.
*/
package canvass
