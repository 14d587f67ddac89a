package mock

type Config struct {
	Port       int
	WriteChunk int
	Address    string
	Loglevel   string
}
