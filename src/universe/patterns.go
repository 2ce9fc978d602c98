package universe

import (
	"bufio"
	"fmt"
	"io"
	"sort"
	"strings"
	"unicode/utf8"
)

//Pattern represents the seeding template which can be stamped onto the universe
type Pattern struct {
	Name    string   //pattern name
	Descr   string   //pattern descr
	Offsets [][2]int //array of [row, column] offsets from the anchor
}

var (
	//Glider travels south-east, one cell diagonally every 4 generations
	Glider = fromModel("glider", "the south-east travelling glider", []string{
		".O.",
		"..O",
		"OOO",
	})

	//Pulsar is the period 3 oscillator with 48 cells
	Pulsar = fromModel("pulsar", "the period 3 oscillator", []string{
		"..OOO...OOO..",
		".............",
		"O....O.O....O",
		"O....O.O....O",
		"O....O.O....O",
		"..OOO...OOO..",
		".............",
		"..OOO...OOO..",
		"O....O.O....O",
		"O....O.O....O",
		"O....O.O....O",
		".............",
		"..OOO...OOO..",
	})

	//Blinker is the period 2 oscillator, horizontal phase
	Blinker = fromModel("blinker", "the period 2 oscillator", []string{
		"OOO",
	})
)

//Patterns returns the built-in patterns by name
func Patterns() map[string]Pattern {
	return map[string]Pattern{
		Glider.Name:  Glider,
		Pulsar.Name:  Pulsar,
		Blinker.Name: Blinker,
	}
}

//ParsePlaintext reads a pattern in the Life plaintext (.cells) format
//lines starting with ! are comments, O or * is alive and . is dead
func ParsePlaintext(name string, r io.Reader) (Pattern, error) {
	var (
		model []string
		descr []string
	)
	sc := bufio.NewScanner(r)
	for line := 1; sc.Scan(); line++ {
		l := strings.TrimRight(sc.Text(), "\r \t")
		if strings.HasPrefix(l, "!") {
			if d := strings.TrimSpace(strings.TrimPrefix(l, "!")); d != "" && !strings.HasPrefix(d, "Name:") {
				descr = append(descr, d)
			}
			continue
		}
		if i := strings.IndexFunc(l, func(c rune) bool { return c != '.' && c != 'O' && c != '*' }); i >= 0 {
			c, _ := utf8.DecodeRuneInString(l[i:])
			return Pattern{}, fmt.Errorf("%w: %s line %d: unexpected %q", ErrBadPattern, name, line, c)
		}
		model = append(model, strings.ReplaceAll(l, "*", "O"))
	}
	if err := sc.Err(); err != nil {
		return Pattern{}, fmt.Errorf("%w: %s: %v", ErrBadPattern, name, err)
	}
	p := fromModel(name, strings.Join(descr, " "), model)
	if len(p.Offsets) == 0 {
		return Pattern{}, fmt.Errorf("%w: %s has no live cells", ErrBadPattern, name)
	}
	return p, nil
}

//fromModel converts the rows of a pattern to offsets from the center cell of the live cells' bounding box
func fromModel(name string, descr string, model []string) Pattern {
	minR, minC, maxR, maxC := -1, -1, -1, -1
	for r, l := range model {
		for c := 0; c < len(l); c++ {
			if l[c] != 'O' {
				continue
			}
			if minR < 0 {
				minR = r
			}
			maxR = r
			if minC < 0 || c < minC {
				minC = c
			}
			if c > maxC {
				maxC = c
			}
		}
	}
	p := Pattern{Name: name, Descr: descr}
	if minR < 0 {
		return p
	}
	ar, ac := minR+(maxR-minR+1)/2, minC+(maxC-minC+1)/2
	for r, l := range model {
		for c := 0; c < len(l); c++ {
			if l[c] == 'O' {
				p.Offsets = append(p.Offsets, [2]int{r - ar, c - ac})
			}
		}
	}
	return p
}

//PatternNames returns the sorted names of the built-in patterns
func PatternNames() []string {
	p := Patterns()
	names := make([]string, 0, len(p))
	for k := range p {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}
