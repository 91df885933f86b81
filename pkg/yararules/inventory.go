package yararules

import (
	"io"
	"os"
	"path/filepath"
	"strconv"

	"github.com/VirusTotal/gyp"
	tw "github.com/olekukonko/tablewriter"
)

// RuleFileInfo describes one file of the rule directory.
type RuleFileInfo struct {
	Name    string
	Size    int64
	Rules   int
	Imports []string
	Err     error
}

// Inventory parses every rule file of rulesPath without compiling it.
// Parse failures are recorded per file and do not stop the listing.
func Inventory(rulesPath string, extensions []string) ([]RuleFileInfo, error) {
	paths, err := RuleFiles(rulesPath, extensions)
	if err != nil {
		return nil, err
	}

	infos := make([]RuleFileInfo, 0, len(paths))
	for _, path := range paths {
		info := RuleFileInfo{Name: filepath.Base(path)}
		data, err := os.ReadFile(path)
		if err != nil {
			info.Err = err
			infos = append(infos, info)
			continue
		}
		info.Size = int64(len(data))

		rs, err := gyp.ParseString(string(data))
		if err != nil {
			info.Err = err
		} else {
			info.Rules = len(rs.Rules)
			info.Imports = rs.Imports
		}
		infos = append(infos, info)
	}
	return infos, nil
}

// CountRules sums the parsed rules of an inventory and counts unparsable files.
func CountRules(infos []RuleFileInfo) (rules, broken int) {
	for _, info := range infos {
		if info.Err != nil {
			broken++
			continue
		}
		rules += info.Rules
	}
	return rules, broken
}

func WriteInventoryTable(w io.Writer, infos []RuleFileInfo) error {
	table := tw.NewWriter(w)
	table.Header("File", "Size", "Rules", "Error")

	for _, info := range infos {
		errText := ""
		if info.Err != nil {
			errText = info.Err.Error()
		}
		table.Append(info.Name, strconv.FormatInt(info.Size, 10), strconv.Itoa(info.Rules), errText)
	}
	return table.Render()
}
