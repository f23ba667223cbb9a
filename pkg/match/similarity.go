package match

import "github.com/resumatch/backend/pkg/nlp"

// Similarity scores how close two free-text passages are, in [0,1]. The
// engine treats it as a black box so an embedding-backed implementation can
// be plugged in without touching ranking.
type Similarity func(a, b string) float64

// TokenJaccard is the default Similarity: token-set intersection over union
// after normalization. Deterministic and cheap, which keeps re-scoring the
// same inputs byte-for-byte reproducible.
func TokenJaccard(a, b string) float64 {
	ta := nlp.Tokens(nlp.Normalize(a))
	tb := nlp.Tokens(nlp.Normalize(b))
	if len(ta) == 0 || len(tb) == 0 {
		return 0
	}
	inter := 0
	for t := range ta {
		if _, ok := tb[t]; ok {
			inter++
		}
	}
	union := len(ta) + len(tb) - inter
	if union == 0 {
		return 0
	}
	return float64(inter) / float64(union)
}
