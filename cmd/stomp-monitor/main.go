// Command stomp-monitor connects to a remote broker over STOMP-over-
// WebSocket-over-TLS and logs passenger-flow events as they arrive. It is
// the thin wiring layer spec.md §1 excludes from the core's specified
// behavior: session and frame own the protocol logic; this file only
// constructs a transport/ws.Client, hands it to a session.Session, and
// subscribes to the configured destinations.
package main

import (
	"crypto/tls"
	"crypto/x509"
	"fmt"
	"net/url"
	"os"
	"os/signal"
	"syscall"

	"github.com/sirupsen/logrus"

	"github.com/transitflow/stomp-client/session"
	"github.com/transitflow/stomp-client/transport/ws"
)

func main() {
	logger := logrus.New()
	logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})

	if len(os.Args) != 2 {
		fmt.Fprintf(os.Stderr, "usage: %s <config.json>\n", os.Args[0])
		os.Exit(1)
	}

	cfg, err := loadConfig(os.Args[1])
	if err != nil {
		logger.WithError(err).Fatal("could not load configuration")
	}

	tlsConfig, err := buildTLSConfig(cfg)
	if err != nil {
		logger.WithError(err).Fatal("could not build TLS configuration")
	}

	endpoint := url.URL{Scheme: "wss", Host: fmt.Sprintf("%s:%d", cfg.Host, cfg.Port), Path: cfg.Endpoint}
	transport := ws.New(endpoint.String(), tlsConfig, logger)
	sess := session.New(cfg.Host, transport, logger)

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	sess.Connect(cfg.Username, cfg.Password,
		func(err *session.SessionError) {
			if !session.IsOk(err) {
				logger.WithField("error", err).Error("connect failed")
				return
			}
			logger.Info("connected to broker")
			for _, destination := range cfg.Destinations {
				subscribeToDestination(sess, destination, logger)
			}
		},
		func(err *session.SessionError) {
			if !session.IsOk(err) {
				logger.WithField("error", err).Warn("disconnected")
			} else {
				logger.Info("disconnected")
			}
		},
	)

	<-shutdown
	logger.Info("shutting down")

	done := make(chan struct{})
	sess.Close(func(err *session.SessionError) { close(done) })
	<-done
}

func subscribeToDestination(sess *session.Session, destination string, logger *logrus.Logger) {
	sess.Subscribe(destination,
		func(err *session.SessionError, id string) {
			if !session.IsOk(err) {
				logger.WithField("destination", destination).WithField("error", err).Error("subscribe failed")
				return
			}
			logger.WithField("destination", destination).WithField("id", id).Info("subscribed")
		},
		func(err *session.SessionError, body string) {
			if !session.IsOk(err) {
				logger.WithField("destination", destination).WithField("error", err).Warn("message delivery error")
				return
			}
			logger.WithField("destination", destination).WithField("body", body).Info("passenger-flow event received")
		},
	)
}

func buildTLSConfig(cfg *Config) (*tls.Config, error) {
	if cfg.CACertFile == "" {
		return &tls.Config{MinVersion: tls.VersionTLS12}, nil
	}

	pem, err := os.ReadFile(cfg.CACertFile)
	if err != nil {
		return nil, fmt.Errorf("reading CA cert file: %w", err)
	}

	pool := x509.NewCertPool()
	if !pool.AppendCertsFromPEM(pem) {
		return nil, fmt.Errorf("no certificates found in %s", cfg.CACertFile)
	}

	return &tls.Config{MinVersion: tls.VersionTLS12, RootCAs: pool}, nil
}
