package protocol

import (
	"context"

	"github.com/lcx/extdb/log"
)

// logProtocol appends each call's data to a dedicated log file named by its
// init data. The file lives under extDB/logs next to the main extension log.
type logProtocol struct {
	logger log.Logger
}

func (l *logProtocol) Init(host Host, initData string) bool {
	if initData == "" {
		return false
	}
	l.logger = host.NamedLogger(initData)
	return l.logger != nil
}

func (l *logProtocol) Call(_ context.Context, data string) (string, error) {
	l.logger.Info().Msg(data)
	return "1", nil
}
