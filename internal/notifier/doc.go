// Package notifier delivers the weekly digest.
//
// Every channel implements Notifier. The dry-run channel prints to a writer,
// the file channel writes Markdown and iCalendar files, and the email,
// Telegram and Twitter channels post to their respective APIs. FromConfig
// assembles the channels named in the notify section of the configuration.
package notifier
