package util

import (
	"regexp"
)

var addressPattern = regexp.MustCompile("0x[0-9a-fA-F]{40}([^0-9a-fA-F]|$)")

func ScanForAddresses(para string) []string {
	result := addressPattern.FindAllString(para, -1)
	if result == nil {
		return []string{}
	}
	for i := 0; i < len(result); i++ {
		result[i] = result[i][0:42]
	}
	return result
}
