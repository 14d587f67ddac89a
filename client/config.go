package client

type Config struct {
	Framing  string
	Loglevel string
}
