// cmd/tools/alias-updater/main.go
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"sort"

	"rfp-matching/pkg/aliasdict"
)

func main() {
	addCmd := flag.NewFlagSet("add", flag.ExitOnError)
	validateCmd := flag.NewFlagSet("validate", flag.ExitOnError)
	listCmd := flag.NewFlagSet("list", flag.ExitOnError)

	pathAdd := addCmd.String("path", "configs/skill_aliases.json", "Path to alias dictionary file")
	skill := addCmd.String("skill", "", "Canonical skill name (e.g., Python)")
	alias := addCmd.String("alias", "", "Alias to add (e.g., python3)")

	pathValidate := validateCmd.String("path", "configs/skill_aliases.json", "Path to alias dictionary file")
	pathList := listCmd.String("path", "configs/skill_aliases.json", "Path to alias dictionary file")

	if len(os.Args) < 2 {
		help()
		os.Exit(1)
	}

	switch os.Args[1] {
	case "add":
		addCmd.Parse(os.Args[2:])
		if *skill == "" || *alias == "" {
			fmt.Println("Error: skill and alias are required for add.")
			addCmd.Usage()
			os.Exit(1)
		}
		if err := addAlias(*pathAdd, *skill, *alias); err != nil {
			fmt.Printf("Error adding alias: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Added alias: %s -> %s\n", *skill, *alias)

	case "validate":
		validateCmd.Parse(os.Args[2:])
		dict, err := aliasdict.Load(*pathValidate)
		if err != nil {
			fmt.Printf("Invalid alias dictionary: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("OK: %d canonical skills\n", dict.Len())

	case "list":
		listCmd.Parse(os.Args[2:])
		if err := listAliases(*pathList); err != nil {
			fmt.Printf("Error listing aliases: %v\n", err)
			os.Exit(1)
		}

	default:
		help()
		os.Exit(1)
	}
}

func addAlias(path, skill, alias string) error {
	aliases, err := readRaw(path)
	if err != nil {
		return err
	}

	for _, existing := range aliases[skill] {
		if existing == alias {
			return fmt.Errorf("alias %q already present for %q", alias, skill)
		}
	}
	aliases[skill] = append(aliases[skill], alias)

	data, err := json.MarshalIndent(aliases, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, append(data, '\n'), 0o644)
}

func listAliases(path string) error {
	aliases, err := readRaw(path)
	if err != nil {
		return err
	}

	skills := make([]string, 0, len(aliases))
	for skill := range aliases {
		skills = append(skills, skill)
	}
	sort.Strings(skills)

	for _, skill := range skills {
		fmt.Printf("%s: %v\n", skill, aliases[skill])
	}
	return nil
}

func readRaw(path string) (map[string][]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return map[string][]string{}, nil
		}
		return nil, err
	}
	var aliases map[string][]string
	if err := json.Unmarshal(data, &aliases); err != nil {
		return nil, err
	}
	return aliases, nil
}

func help() {
	fmt.Println("Usage: alias-updater <command> [flags]")
	fmt.Println("Commands:")
	fmt.Println("  add       -skill <name> -alias <alias> [-path <file>]")
	fmt.Println("  validate  [-path <file>]")
	fmt.Println("  list      [-path <file>]")
}
