package utils

import (
	"errors"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog/log"
)

// create file create a file if it does not exist, along with its parent dir
func CreateFile(dest string, filename string) (*os.File, error) {
	if !PathExists(dest) {
		err := os.MkdirAll(dest, 0755)
		if err != nil {
			return nil, err
		}
	}
	file, err := os.Create(filepath.Join(dest, filename))
	if err != nil {
		return nil, err
	}
	return file, nil
}

// check if file exists
func PathExists(filename string) bool {
	if _, err := os.Stat(filename); err == nil {
		return true
	} else if errors.Is(err, os.ErrNotExist) {
		return false
	} else {
		// Schrodinger: file may or may not exist. See err for details.
		log.Error().Err(err).Str("path", filename).Msg("stat failed")
		return false
	}
}

func GetEnvOrDefault(envVar string, defaultValue string) string {
	envValue := os.Getenv(envVar)
	if len(envValue) == 0 {
		return defaultValue
	}
	return envValue
}

func GetEnvOrDefaultBool(envVar string, defaultValue bool) bool {
	switch strings.ToLower(os.Getenv(envVar)) {
	case "true", "1", "yes":
		return true
	case "false", "0", "no":
		return false
	default:
		return defaultValue
	}
}

func GetInstallDir() string {
	installDir, exists := os.LookupEnv("INTELSYNC_INSTALL_DIR")
	if exists {
		return installDir
	} else {
		return ""
	}
}
