package main

import "testing"

func TestRootCommandWiresSubcommands(t *testing.T) {
	root := rootCmd()
	for _, name := range []string{"serve", "relay", "fetch", "weather"} {
		cmd, _, err := root.Find([]string{name})
		if err != nil || cmd.Name() != name {
			t.Fatalf("subcommand %s not registered: %v", name, err)
		}
	}

	fetch, _, _ := root.Find([]string{"fetch"})
	for _, flag := range []string{"region", "query", "crisis", "page"} {
		if fetch.Flags().Lookup(flag) == nil {
			t.Fatalf("fetch is missing --%s", flag)
		}
	}
}
