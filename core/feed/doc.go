// Package feed ingests external calendar feeds (Airbnb, Booking.com).
//
// It covers three steps of the feed pipeline:
//   - Source: fetches the raw iCalendar document over HTTP with a bounded timeout.
//   - Parser: turns the document into booking.FeedEvent records.
//   - Synthesize: normalizes events into transient booking.Stay records.
//
// # Tolerance
//
// Feeds are published by third parties and are frequently sloppy. The parser
// never fails as a whole: a VEVENT block that lacks UID, DTSTART or DTEND, or
// carries an unparseable date, is dropped and logged at debug level while the
// rest of the document is still returned.
//
// # Dates
//
// DTSTART/DTEND may be bare dates (20250110), local date-times
// (20250110T140000, interpreted in the TZID parameter's zone when present,
// otherwise in the reference zone) or UTC date-times (20250110T140000Z). All
// are normalized to a civil date in the reference zone.
//
// # Usage
//
//	src := feed.NewHTTPSource(30 * time.Second)
//	body, err := src.FetchRaw(ctx, url)
//	events := feed.NewParser(loc, logger).Parse(body, booking.ChannelAirbnb)
//	stays := feed.Synthesize(events)
package feed
