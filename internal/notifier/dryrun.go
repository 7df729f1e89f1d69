package notifier

import (
	"context"
	"fmt"
	"io"

	"github.com/pfrederiksen/gigradar/internal/digest"
)

// DryRun prints what would be sent without delivering anything
type DryRun struct {
	out io.Writer
}

// NewDryRun creates a dry-run notifier writing to out
func NewDryRun(out io.Writer) *DryRun {
	return &DryRun{out: out}
}

// Name implements Notifier
func (n *DryRun) Name() string {
	return "dryrun"
}

// Notify prints the subject, the Markdown body and the tweets that would be posted
func (n *DryRun) Notify(_ context.Context, d digest.Digest) error {
	fmt.Fprintf(n.out, "Subject: %s\n\n", d.Subject())
	fmt.Fprint(n.out, digest.Format(d))

	for i, evt := range d.All() {
		tweet := formatTweet(evt)
		fmt.Fprintf(n.out, "\n--- Tweet %d/%d ---\n", i+1, d.Total())
		fmt.Fprintln(n.out, tweet)
		fmt.Fprintf(n.out, "(Length: %d characters)\n", tweetLength(tweet))
	}
	return nil
}
