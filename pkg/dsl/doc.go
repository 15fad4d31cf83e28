/*
Package dsl provides a fluent builder for constructing question catalogs in Go.

It is an alternative to YAML catalogs, useful for tests, generated questionnaires
and IDE autocompletion. Questions keep the order in which they are added.

Example usage:

	b := dsl.New("onboarding", "1")

	b.Add("name").
		Ask("What's your name?").
		FreeText().
		Required()

	b.Add("satisfaction").
		Ask("How happy are you, {name}?").
		Rating().
		Required()

	b.Add("features").
		Ask("What do you use?").
		MultiSelect("Sync", "Search")

	cat, err := b.Build()
*/
package dsl
