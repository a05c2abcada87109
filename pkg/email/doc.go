// Package email provides the mail transport for the notification dispatch
// engine, with built-in support for Postmark and a development sender that
// writes emails to disk.
//
// The package is built around the Sender interface, allowing providers to
// be swapped without changing application code:
//   - PostmarkClient for production delivery with open/click tracking
//   - DevSender for local development (saves emails to disk)
//
// NewTransport adapts any Sender to the dispatch engine, mapping provider
// failures to retry classifications: bad credentials fail the whole job,
// rejected recipients are recorded without retry, rate-limit rejections
// are retried with extended backoff, and network faults are retried
// normally.
//
// # Usage
//
//	cfg := email.Config{
//	    PostmarkServerToken:  "server-token",
//	    PostmarkAccountToken: "account-token",
//	    SenderEmail:          "passes@site.example.com",
//	    SupportEmail:         "support@site.example.com",
//	}
//
//	sender, err := email.NewPostmarkClient(cfg)
//	if err != nil {
//	    return err
//	}
//
//	transports := map[dispatch.Channel]dispatch.Transport{
//	    dispatch.ChannelEmail: email.NewTransport(sender),
//	}
package email
