package api

import (
	"chatkit/logging"

	"github.com/sirupsen/logrus"
)

var log *logrus.Logger

func init() {
	log = logging.GetLogger()
}
