package speech

import (
	"bufio"
	"regexp"
	"strings"
)

// Alex                en_US    # Most people recognize me by my voice.
var sayVoiceLine = regexp.MustCompile(`^(.+?)\s+([a-z]{2,3}[_-][A-Za-z0-9]+)\s+#`)

// parseSayVoices parses the output of `say -v ?`
func parseSayVoices(output string) []Voice {
	var voices []Voice
	scanner := bufio.NewScanner(strings.NewReader(output))
	for scanner.Scan() {
		m := sayVoiceLine.FindStringSubmatch(scanner.Text())
		if m == nil {
			continue
		}
		name := strings.TrimSpace(m[1])
		voices = append(voices, Voice{
			URI:  name,
			Name: name,
			Lang: strings.ReplaceAll(m[2], "_", "-"),
		})
	}
	return voices
}

// parseEspeakVoices parses the output of `espeak-ng --voices`:
//
//	Pty Language       Age/Gender VoiceName          File          Other Languages
//	 5  vi              --/M      Vietnamese_Northern sit/vi
func parseEspeakVoices(output string) []Voice {
	var voices []Voice
	scanner := bufio.NewScanner(strings.NewReader(output))
	for scanner.Scan() {
		fields := strings.Fields(scanner.Text())
		if len(fields) < 4 || fields[0] == "Pty" {
			continue
		}
		lang := fields[1]
		voices = append(voices, Voice{
			URI:  lang,
			Name: strings.ReplaceAll(fields[3], "_", " "),
			Lang: normalizeLang(lang),
		})
	}
	return voices
}

// parseWindowsVoices parses "name|culture" lines printed by the PowerShell listing
func parseWindowsVoices(output string) []Voice {
	var voices []Voice
	scanner := bufio.NewScanner(strings.NewReader(output))
	for scanner.Scan() {
		name, culture, ok := strings.Cut(strings.TrimSpace(scanner.Text()), "|")
		if !ok || name == "" {
			continue
		}
		voices = append(voices, Voice{URI: name, Name: name, Lang: culture})
	}
	return voices
}

// normalizeLang turns espeak codes like "en-us" into "en-US"
func normalizeLang(code string) string {
	primary, region, ok := strings.Cut(code, "-")
	if !ok || len(region) != 2 {
		return code
	}
	return primary + "-" + strings.ToUpper(region)
}
