package yararules

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/deepfence/IntelSync/constants"
	yara "github.com/hillu/go-yara/v4"
	"github.com/rs/zerolog/log"
)

// variables the file scanner defines before matching; the rules must
// compile against the same set
var extvars = map[string]interface{}{
	"filename":  "",
	"filepath":  "",
	"extension": "",
	"filetype":  "",
}

type VerifyResult struct {
	Files    int
	Rules    int
	Warnings int
}

// Verify compiles every rule file of rulesPath carrying one of extensions the
// way the scan engine loads them and reports how many rules survived.
func Verify(rulesPath string, extensions []string, failOnCompileWarning bool) (VerifyResult, error) {
	var result VerifyResult

	c, err := yara.NewCompiler()
	if err != nil {
		return result, err
	}
	defer c.Destroy()

	for k, v := range extvars {
		if err = c.DefineVariable(k, v); err != nil {
			return result, err
		}
	}

	paths, err := RuleFiles(rulesPath, extensions)
	if err != nil {
		log.Error().Err(err).Msg("failed to get rule files")
		return result, err
	}

	if len(paths) == 0 {
		return result, errors.New("no Yara rule files found")
	}
	result.Files = len(paths)

	for _, path := range paths {
		// yr_compiler_add_string() does not accept a file name, so let the
		// include callback read the file
		log.Debug().Str("file", path).Msg("including yara rule file")
		if err = c.AddString(fmt.Sprintf(`include "%s"`, path), ""); err != nil {
			log.Error().Err(err).Str("file", path).Msg("error adding yara rule")
			return result, err
		}
	}

	rules, err := c.GetRules()
	if err != nil {
		for _, e := range c.Errors {
			log.Error().Str("filename", e.Filename).Int("line", e.Line).Str("text", e.Text).
				Msg("YARA compiler error")
		}
		return result, fmt.Errorf("%d YARA compiler errors(s) found, rejecting ruleset", len(c.Errors))
	}
	defer rules.Destroy()

	result.Warnings = len(c.Warnings)
	if len(c.Warnings) > 0 {
		for _, w := range c.Warnings {
			log.Warn().Str("filename", w.Filename).Int("line", w.Line).Str("text", w.Text).
				Msg("YARA compiler warning")
		}
		if failOnCompileWarning {
			return result, fmt.Errorf("%d YARA compiler warning(s) found, rejecting ruleset", len(c.Warnings))
		}
	}

	result.Rules = len(rules.GetRules())
	if result.Rules == 0 {
		return result, errors.New("no YARA rules defined")
	}
	return result, nil
}

// RuleFiles lists the files of rulesPath ending in one of extensions, in name
// order. No extensions means the default .yar and .yara.
func RuleFiles(rulesPath string, extensions []string) ([]string, error) {
	if len(extensions) == 0 {
		extensions = constants.RuleExtensions
	}

	var fileNames []string
	files, err := os.ReadDir(rulesPath)
	if err != nil {
		return fileNames, err
	}

	for _, f := range files {
		if f.IsDir() {
			continue
		}
		if slices.ContainsFunc(extensions, func(ext string) bool {
			return strings.HasSuffix(f.Name(), ext)
		}) {
			fileNames = append(fileNames, filepath.Join(rulesPath, f.Name()))
		}
	}
	return fileNames, nil
}
