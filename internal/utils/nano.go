package utils

import gonanoid "github.com/matoous/go-nanoid/v2"

var (
	NanoidSize     = 21
	nanoidAlphabet = "0123456789abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ"
)

func NanoID() string {
	return NanoIDSize(NanoidSize)
}

func NanoIDSize(size int) string {
	if size == 0 {
		size = NanoidSize
	}

	return gonanoid.MustGenerate(nanoidAlphabet, size)
}

// PrefixedID tags an id with a short type prefix ("L" for listings, "U" for
// users, "M" for chat messages). The prefix is cosmetic; uniqueness comes
// from the nanoid.
func PrefixedID(prefix string) string {
	return prefix + "-" + NanoID()
}
