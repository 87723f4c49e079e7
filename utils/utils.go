package utils

import (
	"errors"
	"os"

	log "github.com/sirupsen/logrus"
)

func GetEnvOrDefault(envVar string, defaultValue string) string {
	envValue, has := os.LookupEnv(envVar)
	if !has {
		return defaultValue
	}
	return envValue
}

// PathExists reports whether the file at filename is reachable. Stat errors
// other than non-existence are logged and treated as absent.
func PathExists(filename string) bool {
	_, err := os.Stat(filename)
	if err == nil {
		return true
	}
	if !errors.Is(err, os.ErrNotExist) {
		log.Errorf("stat %s: %v", filename, err)
	}
	return false
}
