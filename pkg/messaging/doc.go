// Package messaging provides the phone-number transport for the
// notification dispatch engine, backed by a third-party HTTP messaging
// gateway.
//
// Client wraps the gateway's JSON API with bearer-token authentication and
// a bounded request timeout. NewTransport adapts the client to the dispatch
// engine, mapping HTTP status codes to retry classifications: 401/403 fail
// the whole job, 4xx recipient rejections are recorded without retry, 429
// is retried with extended backoff, and 408/5xx/network faults are retried
// normally.
//
// # Usage
//
//	client, err := messaging.NewClient(messaging.Config{
//	    BaseURL:  "https://gateway.example.com",
//	    APIToken: "token",
//	})
//	if err != nil {
//	    return err
//	}
//
//	transports := map[dispatch.Channel]dispatch.Transport{
//	    dispatch.ChannelMessaging: messaging.NewTransport(client),
//	}
package messaging
