package fillmask

// LocateMask returns the position of the first token that equals maskToken exactly
func LocateMask(tokens []string, maskToken string) (int, bool) {
	for i, token := range tokens {
		if token == maskToken {
			return i, true
		}
	}
	return -1, false
}
