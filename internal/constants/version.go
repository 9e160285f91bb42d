package constants

// Версия и хеш коммита подставляются при сборке:
//
//	go build -ldflags "-X github.com/Kargones/apk-files/internal/constants.Version=1.2.0 \
//	  -X github.com/Kargones/apk-files/internal/constants.PreCommitHash=$(git rev-parse --short HEAD)"
var (
	Version       = "dev"
	PreCommitHash = ""
)
