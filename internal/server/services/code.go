package services

import (
	"crypto/rand"
	"math/big"
	"strconv"

	"github.com/dmitrijs2005/todopoc/internal/server/models"
)

var codeSpan = big.NewInt(models.MaxVerificationCode - models.MinVerificationCode + 1)

// GenerateCode returns a uniformly distributed six-digit verification code.
func GenerateCode() (string, error) {
	n, err := rand.Int(rand.Reader, codeSpan)
	if err != nil {
		return "", err
	}
	return strconv.FormatInt(n.Int64()+models.MinVerificationCode, 10), nil
}
