package speech

import (
	"bufio"
	"bytes"
	"fmt"
	"path/filepath"
	"strings"
)

// engineWPM is the default words-per-minute of espeak-ng and say.
const engineWPM = 175

type backend struct {
	name       string
	voicesArgs []string
	parse      func([]byte) []Voice
	args       func(v *Voice, rate float64, text string) []string
}

var backends = map[string]backend{
	"espeak-ng": espeakBackend("espeak-ng"),
	"espeak":    espeakBackend("espeak"),
	"say":       sayBackend(),
}

// autoOrder is the probe order when no command is configured.
var autoOrder = []string{"espeak-ng", "espeak", "say"}

func backendFor(command string) backend {
	base := filepath.Base(command)
	if b, ok := backends[base]; ok {
		return b
	}
	return backend{
		name: base,
		args: func(_ *Voice, _ float64, text string) []string { return []string{text} },
	}
}

func wpm(rate float64) string {
	if rate <= 0 {
		rate = DefaultRate
	}
	return fmt.Sprintf("%d", int(engineWPM*rate))
}

func espeakBackend(name string) backend {
	return backend{
		name:       name,
		voicesArgs: []string{"--voices"},
		parse:      parseEspeakVoices,
		args: func(v *Voice, rate float64, text string) []string {
			args := []string{"-s", wpm(rate)}
			if v != nil {
				args = append(args, "-v", v.Lang)
			}
			return append(args, "--", text)
		},
	}
}

func sayBackend() backend {
	return backend{
		name:       "say",
		voicesArgs: []string{"-v", "?"},
		parse:      parseSayVoices,
		args: func(v *Voice, rate float64, text string) []string {
			args := []string{"-r", wpm(rate)}
			if v != nil {
				args = append(args, "-v", v.Name)
			}
			return append(args, "--", text)
		},
	}
}

// parseEspeakVoices reads the table printed by `espeak-ng --voices`:
//
//	Pty Language       Age/Gender VoiceName          File    Other Languages
//	 5  en-gb           M  english             gmw/en
func parseEspeakVoices(out []byte) []Voice {
	var voices []Voice
	sc := bufio.NewScanner(bytes.NewReader(out))
	for sc.Scan() {
		fields := strings.Fields(sc.Text())
		if len(fields) < 4 || fields[0] == "Pty" {
			continue
		}
		voices = append(voices, Voice{Lang: fields[1], Name: fields[3]})
	}
	return voices
}

// parseSayVoices reads `say -v ?` lines of the form
// "Daniel              en_GB    # Hello, my name is Daniel."
func parseSayVoices(out []byte) []Voice {
	var voices []Voice
	sc := bufio.NewScanner(bytes.NewReader(out))
	for sc.Scan() {
		line, _, _ := strings.Cut(sc.Text(), "#")
		fields := strings.Fields(line)
		if len(fields) < 2 {
			continue
		}
		voices = append(voices, Voice{
			Name: strings.Join(fields[:len(fields)-1], " "),
			Lang: fields[len(fields)-1],
		})
	}
	return voices
}
