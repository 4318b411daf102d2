package config

import "os"

func IsDebug() bool {
	return os.Getenv("MOODMEM_DEBUG") == "1"
}
