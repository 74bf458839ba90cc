package hash

import "golang.org/x/crypto/bcrypt"

// HashPassword hashes with the given bcrypt cost; pass bcrypt.DefaultCost
// unless the deployment tunes BCRYPT_COST.
func HashPassword(password string, cost int) (string, error) {
	hashBytes, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	if err != nil {
		return "", err
	}
	return string(hashBytes), nil
}

func CheckPassword(hash, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}
