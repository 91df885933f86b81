package main

import (
	"fmt"
	"os"

	"github.com/deepfence/IntelSync/pkg/yararules"
)

func main() {
	if len(os.Args) < 2 {
		fmt.Println("Usage: rules-inventory <rules-dir> [extension ...]")
		os.Exit(1)
	}

	infos, err := yararules.Inventory(os.Args[1], os.Args[2:])
	if err != nil {
		fmt.Printf("Error reading rule directory: %v\n", err)
		os.Exit(1)
	}

	if err := yararules.WriteInventoryTable(os.Stdout, infos); err != nil {
		fmt.Printf("Error writing table: %v\n", err)
		os.Exit(1)
	}

	rules, broken := yararules.CountRules(infos)
	fmt.Printf("%d rule files, %d rules, %d unparsable\n", len(infos), rules, broken)
}
