package utils

import "unicode"

// SanitizeCNPJ remove máscara e qualquer caractere que não seja dígito.
func SanitizeCNPJ(s string) string {
	out := make([]rune, 0, len(s))
	for _, r := range s {
		if unicode.IsDigit(r) {
			out = append(out, r)
		}
	}
	return string(out)
}

// ValidateCNPJ valida um CNPJ já sanitizado: 14 dígitos, não todos iguais e
// os dois dígitos verificadores corretos (módulo 11).
func ValidateCNPJ(cnpj string) bool {
	if len(cnpj) != 14 {
		return false
	}
	allEq := true
	for i := 0; i < 14; i++ {
		if cnpj[i] < '0' || cnpj[i] > '9' {
			return false
		}
		if cnpj[i] != cnpj[0] {
			allEq = false
		}
	}
	if allEq {
		return false
	}
	return checkDigit(cnpj, 12) == int(cnpj[12]-'0') &&
		checkDigit(cnpj, 13) == int(cnpj[13]-'0')
}

// checkDigit calcula o dígito verificador da posição n (12 ou 13).
func checkDigit(cnpj string, n int) int {
	weight := n - 7 // 5 para o primeiro dígito, 6 para o segundo
	sum := 0
	for i := 0; i < n; i++ {
		sum += int(cnpj[i]-'0') * weight
		weight--
		if weight < 2 {
			weight = 9
		}
	}
	d := sum % 11
	if d < 2 {
		return 0
	}
	return 11 - d
}
