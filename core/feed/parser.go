package feed

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"booking-sync/core/booking"

	"go.uber.org/zap"
)

const (
	layoutDate        = "20060102"
	layoutDateTime    = "20060102T150405"
	layoutDateTimeUTC = "20060102T150405Z"
)

var errMissingField = errors.New("missing required field")

// IsCalendar reports whether body carries an iCalendar VCALENDAR object.
// Login pages and error documents served with a 200 fail this check.
func IsCalendar(body string) bool {
	return strings.Contains(strings.ToUpper(body), "BEGIN:VCALENDAR")
}

// Parser converts iCalendar documents into feed events.
type Parser struct {
	loc    *time.Location
	logger *zap.Logger
}

// NewParser creates a parser normalizing dates to loc. A nil loc means UTC and
// a nil logger disables drop logging.
func NewParser(loc *time.Location, logger *zap.Logger) *Parser {
	if loc == nil {
		loc = time.UTC
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Parser{loc: loc, logger: logger}
}

// property is one content line split into name, parameters and value.
type property struct {
	params map[string]string
	value  string
}

// Parse extracts every well-formed VEVENT of body. It never returns nil.
func (p *Parser) Parse(body string, platform booking.Channel) []booking.FeedEvent {
	events := []booking.FeedEvent{}

	var current map[string]property
	inEvent := false

	for _, line := range unfold(body) {
		switch {
		case strings.EqualFold(line, "BEGIN:VEVENT"):
			current = make(map[string]property)
			inEvent = true
		case strings.EqualFold(line, "END:VEVENT"):
			if !inEvent {
				continue
			}
			inEvent = false
			event, err := p.buildEvent(current, platform)
			if err != nil {
				p.logger.Debug("Dropping feed event",
					zap.String("platform", string(platform)),
					zap.String("uid", current["UID"].value),
					zap.Error(err))
				continue
			}
			events = append(events, event)
		case inEvent:
			name, prop, ok := splitProperty(line)
			if !ok {
				continue
			}
			// First occurrence wins; duplicates are ignored.
			if _, seen := current[name]; !seen {
				current[name] = prop
			}
		}
	}

	if inEvent {
		p.logger.Debug("Dropping unterminated feed event", zap.String("platform", string(platform)))
	}

	return events
}

func (p *Parser) buildEvent(props map[string]property, platform booking.Channel) (booking.FeedEvent, error) {
	uid := strings.TrimSpace(props["UID"].value)
	if uid == "" {
		return booking.FeedEvent{}, fmt.Errorf("%w: UID", errMissingField)
	}

	startProp, ok := props["DTSTART"]
	if !ok {
		return booking.FeedEvent{}, fmt.Errorf("%w: DTSTART", errMissingField)
	}
	endProp, ok := props["DTEND"]
	if !ok {
		return booking.FeedEvent{}, fmt.Errorf("%w: DTEND", errMissingField)
	}

	start, startTimed, err := p.parseDate(startProp)
	if err != nil {
		return booking.FeedEvent{}, fmt.Errorf("DTSTART: %w", err)
	}
	end, endTimed, err := p.parseDate(endProp)
	if err != nil {
		return booking.FeedEvent{}, fmt.Errorf("DTEND: %w", err)
	}

	if !start.Before(end) {
		// A timed block that starts and ends on the same day still blocks that day.
		if (startTimed || endTimed) && start.Equal(end) {
			end = start.AddDays(1)
		} else {
			return booking.FeedEvent{}, fmt.Errorf("end %s is not after start %s", end, start)
		}
	}

	summary := unescapeText(strings.TrimSpace(props["SUMMARY"].value))
	if summary == "" {
		summary = platform.DisplayName()
	}

	return booking.FeedEvent{
		UID:      uid,
		Summary:  summary,
		Start:    start,
		End:      end,
		Platform: platform,
	}, nil
}

// parseDate normalizes a DTSTART/DTEND value. The boolean result reports
// whether the value carried a time of day.
func (p *Parser) parseDate(prop property) (booking.Date, bool, error) {
	value := strings.TrimSpace(prop.value)

	switch len(value) {
	case len(layoutDate):
		t, err := time.Parse(layoutDate, value)
		if err != nil {
			return booking.Date{}, false, err
		}
		return booking.NewDate(t.Year(), t.Month(), t.Day()), false, nil

	case len(layoutDateTimeUTC):
		if !strings.HasSuffix(value, "Z") {
			break
		}
		t, err := time.Parse(layoutDateTimeUTC, value)
		if err != nil {
			return booking.Date{}, true, err
		}
		return booking.DateOf(t, p.loc), true, nil

	case len(layoutDateTime):
		loc := p.loc
		if tzid := prop.params["TZID"]; tzid != "" {
			if zone, err := time.LoadLocation(tzid); err == nil {
				loc = zone
			}
		}
		t, err := time.ParseInLocation(layoutDateTime, value, loc)
		if err != nil {
			return booking.Date{}, true, err
		}
		return booking.DateOf(t, p.loc), true, nil
	}

	return booking.Date{}, false, fmt.Errorf("unsupported date value %q", value)
}

// unfold splits body into logical lines, joining continuation lines that
// start with a space or tab onto the previous line. Lines have no length cap.
func unfold(body string) []string {
	var lines []string

	for _, raw := range strings.Split(body, "\n") {
		line := strings.TrimRight(raw, "\r")
		if line == "" {
			continue
		}
		if (line[0] == ' ' || line[0] == '\t') && len(lines) > 0 {
			lines[len(lines)-1] += line[1:]
			continue
		}
		lines = append(lines, line)
	}

	return lines
}

// splitProperty splits "NAME;PARAM=x:VALUE" into its parts.
func splitProperty(line string) (string, property, bool) {
	colon := strings.IndexByte(line, ':')
	if colon <= 0 {
		return "", property{}, false
	}

	head := line[:colon]
	prop := property{value: line[colon+1:]}

	parts := strings.Split(head, ";")
	name := strings.ToUpper(strings.TrimSpace(parts[0]))
	if len(parts) > 1 {
		prop.params = make(map[string]string, len(parts)-1)
		for _, param := range parts[1:] {
			key, val, found := strings.Cut(param, "=")
			if !found {
				continue
			}
			prop.params[strings.ToUpper(key)] = strings.Trim(val, `"`)
		}
	}

	return name, prop, true
}

var textUnescaper = strings.NewReplacer(`\n`, " ", `\N`, " ", `\,`, ",", `\;`, ";", `\\`, `\`)

func unescapeText(s string) string {
	return textUnescaper.Replace(s)
}
