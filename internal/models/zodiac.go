package models

// Sign is one of the twelve zodiac signs.
type Sign string

// Zodiac signs in cyclic order.
const (
	Aries       Sign = "Aries"
	Taurus      Sign = "Taurus"
	Gemini      Sign = "Gemini"
	Cancer      Sign = "Cancer"
	Leo         Sign = "Leo"
	Virgo       Sign = "Virgo"
	Libra       Sign = "Libra"
	Scorpio     Sign = "Scorpio"
	Sagittarius Sign = "Sagittarius"
	Capricorn   Sign = "Capricorn"
	Aquarius    Sign = "Aquarius"
	Pisces      Sign = "Pisces"
)

// Signs lists every zodiac sign in cyclic order, starting at Aries.
var Signs = []Sign{
	Aries, Taurus, Gemini, Cancer,
	Leo, Virgo, Libra, Scorpio,
	Sagittarius, Capricorn, Aquarius, Pisces,
}

// Index returns the position of s in Signs, or -1 if s is not a known sign.
func (s Sign) Index() int {
	for i, sign := range Signs {
		if sign == s {
			return i
		}
	}
	return -1
}

// Valid reports whether s is one of the twelve zodiac signs.
func (s Sign) Valid() bool {
	return s.Index() >= 0
}

// Next returns the sign that follows s. An unknown sign resolves to Aries
// rather than an error.
func (s Sign) Next() Sign {
	i := s.Index()
	if i < 0 {
		return Signs[0]
	}
	return Signs[(i+1)%len(Signs)]
}

// Advance moves steps signs forward around the zodiac. An unknown sign is
// treated as Aries before advancing; non-positive steps return s unchanged.
func (s Sign) Advance(steps int) Sign {
	if steps <= 0 {
		return s
	}
	i := s.Index()
	if i < 0 {
		i = 0
	}
	return Signs[(i+steps)%len(Signs)]
}

// ParseSign returns the sign named by name. Unknown names fall back to Aries
// and ok is false.
func ParseSign(name string) (sign Sign, ok bool) {
	s := Sign(name)
	if !s.Valid() {
		return Signs[0], false
	}
	return s, true
}
