package services

import (
	"crypto/rand"
	"math/big"
	"strconv"
)

// GenerateOTP returns a uniformly random code in 1000..9999
func GenerateOTP() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(9000))
	if err != nil {
		return "", err
	}
	return strconv.FormatInt(n.Int64()+1000, 10), nil
}
