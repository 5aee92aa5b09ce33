package logging

import "github.com/sirupsen/logrus"

// RequestFields are attached to every log line emitted while serving a request.
func RequestFields(requestID, query string, width, height int) logrus.Fields {
	return logrus.Fields{
		"request_id": requestID,
		"query":      query,
		"width":      width,
		"height":     height,
	}
}
