package models

// User represents a shop account. RealName/Email/Address form the saved
// recipient profile that checkout prefers over manually entered values.
type User struct {
	Username string
	PassHash []byte
	Email    string
	RealName string
	Address  string
}
