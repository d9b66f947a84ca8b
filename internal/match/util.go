package match

import "github.com/hiveserver/hiveserver/internal/hexcoord"

func containsHex(hs []hexcoord.Hex, target hexcoord.Hex) bool {
	for _, h := range hs {
		if h.AsKey() == target.AsKey() {
			return true
		}
	}
	return false
}
