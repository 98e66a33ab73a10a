package services

// SMS encodings and the standard length thresholds. The single-segment limit
// differs from the per-segment limit of a multipart message because each part
// of a multipart message carries a concatenation header.
const (
	EncodingGSM     = "GSM"
	EncodingUnicode = "Unicode"

	gsmSingleSegment     = 160
	gsmMultiSegment      = 153
	unicodeSingleSegment = 70
	unicodeMultiSegment  = 67
)

// SegmentInfo is the result of classifying one message body.
type SegmentInfo struct {
	Characters           int    `json:"characters"`
	Segments             int    `json:"segments"`
	Encoding             string `json:"encoding"`
	CharactersPerSegment int    `json:"charactersPerSegment"`
}

// GSM 03.38 basic character set. Anything outside it (and the extension set)
// forces the whole message to Unicode.
var gsmBasic = map[rune]struct{}{}

// Extension characters are still GSM but cost two septets each.
var gsmExtension = map[rune]struct{}{
	'|': {}, '^': {}, '{': {}, '}': {}, '[': {}, ']': {}, '~': {}, '\\': {}, '€': {},
}

func init() {
	basic := "@£$¥èéùìòÇ\nØø\rÅåΔ_ΦΓΛΩΠΨΣΘΞÆæßÉ !\"#¤%&'()*+,-./0123456789:;<=>?" +
		"¡ABCDEFGHIJKLMNOPQRSTUVWXYZÄÖÑÜ§¿abcdefghijklmnopqrstuvwxyzäöñüà"
	for _, r := range basic {
		gsmBasic[r] = struct{}{}
	}
}

// CalculateSegments classifies a message body and computes its billable
// segment count. Deterministic and purely local; the backend recomputes the
// cost at send time and is authoritative for credit deduction.
func CalculateSegments(message string) SegmentInfo {
	encoding := EncodingGSM
	length := 0
	characters := 0

	for _, r := range message {
		characters++
		if _, ok := gsmExtension[r]; ok {
			length += 2
			continue
		}
		if _, ok := gsmBasic[r]; ok {
			length++
			continue
		}
		encoding = EncodingUnicode
	}

	if encoding == EncodingUnicode {
		length = characters
	}

	single, multi := gsmSingleSegment, gsmMultiSegment
	if encoding == EncodingUnicode {
		single, multi = unicodeSingleSegment, unicodeMultiSegment
	}

	var segments, perSegment int
	switch {
	case length == 0:
		segments, perSegment = 0, single
	case length <= single:
		segments, perSegment = 1, single
	default:
		segments = (length + multi - 1) / multi
		perSegment = multi
	}

	return SegmentInfo{
		Characters:           characters,
		Segments:             segments,
		Encoding:             encoding,
		CharactersPerSegment: perSegment,
	}
}
