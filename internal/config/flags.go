package config

import (
	"errors"
	"flag"
	"net"
	"strconv"
	"strings"
	"time"
)

// NetAddress holds structured network address data for host and port.
// It implements the flag.Value interface.
type NetAddress struct {
	Host string
	Port int
}

// ParseFlags parses all configuration flags.
//
// Flags:
//
//	-a server address in format [host]:[port]
//	-preset key manager preset ("normal" or "high-security")
//	-cert-path key store directory
//	-key-expiry-months key expiry, in calendar months
//	-auto-generate generate a key pair if none is found on disk
//	-enable-file-backup back up the previous key pair before rotation
//	-rotation-grace-period-minutes grace window after rotation
//	-rotation-interval-weeks automatic rotation cadence
//	-request-timeout request timeout (e.g., "30s", "1m")
//	-public-key-url client: URL to fetch the server's public key from
//	-cache-ttl client: how long a fetched public key is reused
//	-fetch-timeout client: timeout for a single public-key fetch
//	-fetch-retries client: additional attempts after a failed fetch
//	-c/-config json file path with configs
func ParseFlags() *StructuredConfig {
	var serverAddress NetAddress
	var preset string
	var certPath string
	var keyExpiryMonths int
	var autoGenerate bool
	var enableFileBackup bool
	var rotationGracePeriodMinutes int
	var rotationIntervalWeeks int
	var requestTimeout time.Duration
	var publicKeyURL string
	var cacheTTL time.Duration
	var fetchTimeout time.Duration
	var fetchRetries int
	var jsonConfigPath string

	flag.Var(&serverAddress, "a", "Net address host:port")
	flag.StringVar(&preset, "preset", "", "Key manager preset (normal or high-security)")
	flag.StringVar(&certPath, "cert-path", "", "Key store directory")
	flag.IntVar(&keyExpiryMonths, "key-expiry-months", 0, "Key expiry in calendar months")
	flag.BoolVar(&autoGenerate, "auto-generate", false, "Auto-generate a key pair if none is found")
	flag.BoolVar(&enableFileBackup, "enable-file-backup", false, "Back up the previous key pair before rotation")
	flag.IntVar(&rotationGracePeriodMinutes, "rotation-grace-period-minutes", 0, "Grace period, in minutes, after a rotation")
	flag.IntVar(&rotationIntervalWeeks, "rotation-interval-weeks", 0, "Automatic rotation cadence, in weeks")
	flag.DurationVar(&requestTimeout, "request-timeout", 0, "Request timeout (e.g., 30s, 1m)")
	flag.StringVar(&publicKeyURL, "public-key-url", "", "URL to fetch the server's public key from")
	flag.DurationVar(&cacheTTL, "cache-ttl", 0, "How long a fetched public key is reused")
	flag.DurationVar(&fetchTimeout, "fetch-timeout", 0, "Timeout for a single public-key fetch")
	flag.IntVar(&fetchRetries, "fetch-retries", 0, "Additional attempts after a failed public-key fetch")
	flag.StringVar(&jsonConfigPath, "c", "", "JSON config file path")
	flag.StringVar(&jsonConfigPath, "config", "", "JSON config file path (alias)")

	flag.Parse()

	return &StructuredConfig{
		KeyManager: KeyManager{
			Preset:                     preset,
			CertPath:                   certPath,
			KeyExpiryMonths:            keyExpiryMonths,
			AutoGenerate:               autoGenerate,
			EnableFileBackup:           enableFileBackup,
			RotationGracePeriodMinutes: rotationGracePeriodMinutes,
			RotationIntervalWeeks:      rotationIntervalWeeks,
		},
		Server: Server{
			HTTPAddress:    serverAddress.String(),
			RequestTimeout: requestTimeout,
		},
		Client: Client{
			PublicKeyURL: publicKeyURL,
			CacheTTL:     cacheTTL,
			FetchTimeout: fetchTimeout,
			FetchRetries: fetchRetries,
		},
		JSONFilePath: jsonConfigPath,
	}
}

// String returns a canonical host:port string for a NetAddress.
// If neither Host nor Port are set, it returns an empty string.
func (a *NetAddress) String() string {
	if a.Host == "" && a.Port == 0 {
		return ""
	}

	return a.Host + ":" + strconv.Itoa(a.Port)
}

// Set parses the input string of form host:port and populates the NetAddress.
// It validates the port range, checks IP correctness unless host is "localhost",
// and returns an error if the format or values are invalid.
func (a *NetAddress) Set(s string) error {
	hostAndPort := strings.Split(s, ":")
	if len(hostAndPort) != 2 {
		return errors.New("need address in a form `host:port`")
	}

	host := hostAndPort[0]
	port, err := strconv.Atoi(hostAndPort[1])
	if err != nil {
		return err
	}

	if port < 1 {
		return errors.New("port number is a positive integer")
	}

	if host != "localhost" {
		ip := net.ParseIP(hostAndPort[0])
		if ip == nil {
			return errors.New("incorrect IP-address provided")
		}
	}

	a.Host = host
	a.Port = port
	return nil
}
