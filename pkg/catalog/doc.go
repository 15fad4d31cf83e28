/*
Package catalog holds the ordered, immutable list of questions a session walks through.

A Catalog is built once (from Go code, a YAML document or the compiled-in default)
and validated before use. Lookups past the terminal position are programming errors
and panic with a *domain.ProgrammerError.

	cat, err := catalog.Parse(yamlBytes)
	if err != nil {
		log.Fatal(err)
	}
	q, ok := cat.Get(0)
*/
package catalog
