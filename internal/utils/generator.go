package utils

import (
	"fmt"

	gonanoid "github.com/matoous/go-nanoid/v2"
)

const (
	DefaultShortCodeLength = 7
	GroupCodeLength        = 8
	alphabet               = "0123456789abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ-_"
)

func GenerateShortCodeWithLength(length int) (string, error) {
	if length < 1 {
		return "", fmt.Errorf("invalid short code length %d", length)
	}

	return gonanoid.Generate(alphabet, length)
}
