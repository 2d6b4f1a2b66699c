package utils

import "crypto/rand"

const passwordAlphabet = "abcdefghijklmnopqrstuvwxyz0123456789"

// RandomPassword gera a senha provisória emitida na habilitação do contato.
func RandomPassword(n int) string {
	b := make([]byte, n)
	_, _ = rand.Read(b)
	for i := range b {
		b[i] = passwordAlphabet[int(b[i])%len(passwordAlphabet)]
	}
	return string(b)
}
