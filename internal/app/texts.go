package app

import (
	"fmt"
	"strconv"
	"time"

	"github.com/lh2mqtt/lh2mqtt/internal/pkg/config"
	"github.com/lh2mqtt/lh2mqtt/internal/pkg/schema"
)

// Plugin metadata reported to the host.
const (
	Name       = "lh2mqtt"
	Version    = "1.26.2"
	Author     = "Little.Ben, DH6BS"
	APIVersion = 26
	SourceURL  = "https://github.com/Little-Ben/ts3client-pluginsdk-lh2mqtt"

	firstYear = 2023
)

// Menu entries of the plugins menu.
var MenuEntries = []string{
	"Konfiguration &editieren",
	"Konfiguration &neu laden",
	"&Info",
}

// Texts holds the language-dependent plugin texts.
type Texts struct {
	Description string
	ReloadHint  string
	About       string
}

// TextsFor selects German texts when LANGUAGE is DE and English otherwise.
func TextsFor(g config.GeneralSettings, path string, now time.Time) Texts {
	year := copyrightYears(now)

	if g.IsGerman() {
		desc := "Dieses Plugin sendet den aktuell sprechenden User (LastHeard) an einen MQTT-Broker und/oder an den Channel-Tab."
		return Texts{
			Description: desc,
			ReloadHint:  "[b]Bitte nach dem Speichern der Änderungen die Konfiguration via Plugins-Menü neu laden[/b]",
			About: fmt.Sprintf("%s - TeamSpeak 3 %s Plugin\n\n%s\n\nAutor: \t\t%s\nPlugin Version: \t%s\nTS3 API Version: \t%d\nCopyright: \t%s\nLizenz: \t\tLGPL\n\nQuellcode:\n%s\n\nKonfigurationsdatei:\n%s",
				Name, schema.PlatformName, desc, Author, Version, APIVersion, year, SourceURL, path),
		}
	}

	desc := "This plugin transmits the currently speaking user (LastHeard) to an MQTT broker and/or the channel tab."
	return Texts{
		Description: desc,
		ReloadHint:  "[b]Please reload configuration via plugins menu after saving changes to INI file[/b]",
		About: fmt.Sprintf("%s - TeamSpeak 3 %s plugin\n\n%s\n\nAuthor: \t\t%s\nPlugin version: \t%s\nTS3 API version: \t%d\nCopyright: \t%s\nLicense: \t\tLGPL\n\nSource code:\n%s\n\nConfig file:\n%s",
			Name, schema.PlatformName, desc, Author, Version, APIVersion, year, SourceURL, path),
	}
}

func copyrightYears(now time.Time) string {
	if now.Year() <= firstYear {
		return strconv.Itoa(firstYear)
	}
	return fmt.Sprintf("%d - %d", firstYear, now.Year())
}
