package ports

// Logger é o logger estruturado da aplicação. args são pares chave/valor
// ("user_id", id); With devolve um logger com os pares fixados.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
	With(args ...any) Logger
}
