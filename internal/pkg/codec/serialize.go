package codec

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"strings"

	"github.com/lh2mqtt/lh2mqtt/internal/pkg/schema"
	"github.com/lh2mqtt/lh2mqtt/internal/pkg/store"
)

const rule = ";-------------------------------------------------------------------------------"

// Header returns the commented banner written at the top of every generated file.
func Header(platform string) string {
	lines := []string{
		"; lh2mqtt - LastHeard To Mqtt - TeamSpeak 3 Plugin (" + platform + ")",
		rule,
		"; Dieses Plugin ermoeglicht die Anzeige des zuletzt aktiven Sprechers ",
		";   1) via MQTT (INI-Bereich: MQTT)",
		";   2) im Channel-Tab in TeamSpeak 3 (INI-Bereich: CHANNELTAB)",
		";",
		rule,
		"; MQTT:",
		rule,
		"; Fuer MQTT wird eine Installation von Mosquitto benoetigt, ",
		"; siehe: https://mosquitto.org/download/",
		";",
	}
	if platform == "Windows" {
		lines = append(lines, "; PATH beinhaltet den kompletten Pfad zur mosquitto_pub.exe (inkl. EXE)")
	} else {
		lines = append(lines,
			"; PATH beinhaltet den kompletten Pfad zur mosquitto_pub Binary",
			";   siehe: whereis mosquitto_pub",
		)
	}
	lines = append(lines,
		"; HOST kann eine IP-Adresse oder ein Hostname (FQDN) sein",
		";   also 127.0.0.1 oder meine-broker-fqdn",
		"; PORT des Brokers (anzugeben, falls abweichend von 1883)",
		"; USER/PASSWORD/QOS sind optional",
		"; CAFILE: kompletter Pfad und Dateiname des Server-CA-Bundles (SSL)",
		"; SEND_START/SEND_STOP: 1 gibt an, dass die Info via MQTT gesendet wird",
		"; TOPIC_START/TOPIC_STOP: Topic auf dem die Info veroeffentlicht wird",
		";",
		rule,
		"; CHANNELTAB:",
		rule,
		"; Farbwerte sind RGB-HEX-Codes (z.B.: #FF00FF) ",
		"; oder manche, einfache Farbnamen auch direkt (z.B.: green, red, yellow)",
		"; siehe: https://www.farb-tabelle.de/de/farbtabelle.htm",
		";",
		"; SHOW_START/SHOW_STOP: 1 gibt an, dass Info im Channel-Tab ausgegeben wird",
		"; COLOR_START/COLOR_STOP: RGB-Farbwert (bei HEX-Code mit # angeben!)",
		";",
		rule,
		"; LOGGING:",
		rule,
		"; LOG_MQTT_MSG: 1 gibt an, dass die gesendete MQTT-Message mitgeloggt wird",
		";",
		rule,
		"; Diese Config wird automatisch beim Programmstart von TeamSpeak 3",
		"; oder nach 'Plugins|lh2mqtt|Konfiguration editieren' neu eingelesen!",
		"; Sollte keine Config existieren, wird ein Standardinhalt als Vorlage erzeugt.",
		rule,
		"; Autor: Little.Ben, DH6BS",
		"; Quellcode siehe: https://github.com/Little-Ben/ts3client-pluginsdk-lh2mqtt",
		"; Lizenz: LGPL",
		rule,
	)
	return strings.Join(lines, "\n") + "\n"
}

// Serialize writes the header followed by every section and key in schema
// order, one "Key=Value" line per field and a blank line after each section.
func Serialize(w io.Writer, s *store.Store) error {
	return serialize(w, s, schema.PlatformName)
}

func serialize(w io.Writer, s *store.Store, platform string) error {
	bw := bufio.NewWriter(w)

	bw.WriteString(Header(platform))
	bw.WriteString("\n")

	for _, section := range schema.Sections() {
		fmt.Fprintf(bw, "[%s]\n", section)
		for _, f := range schema.SectionFields(section) {
			v, _ := s.Get(string(f.Section), f.Name)
			fmt.Fprintf(bw, "%s=%s\n", f.Name, v)
		}
		bw.WriteString("\n")
	}

	return bw.Flush()
}

// Marshal returns the serialized form of s.
func Marshal(s *store.Store) []byte {
	var buf bytes.Buffer
	// bytes.Buffer writes cannot fail
	_ = Serialize(&buf, s)
	return buf.Bytes()
}
