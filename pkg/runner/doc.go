/*
Package runner implements the interactive loop that drives a canvass engine
from a terminal or a JSON pipe.

It acts as the bridge between the stateless engine and the respondent. The
runner renders the active question, reads a line, interprets the navigation
commands, persists the session after every accepted step and finalizes once
the catalog is exhausted.

# Key Components

  - Runner: the Render, Input, SubmitAnswer loop.
  - IOHandler: decouples how actions are shown and answers are read.
  - TextHandler: a human-facing terminal handler, optionally markdown-rendered.
  - JSONHandler: NDJSON in and out, for scripting and embedding.

# Commands

While a question is open the respondent may type:

	back            return to the previous question
	toggle <option> flip an option of a multi-select question
	exit, quit      leave; the session is kept if a store is configured

# Usage

	r := runner.NewRunner(
		runner.WithInputHandler(runner.NewTextHandler(os.Stdin, os.Stdout)),
		runner.WithStore(file.NewStore("")),
	)

	if _, err := r.Run(ctx, engine, nil); err != nil {
		log.Fatal(err)
	}
*/
package runner
