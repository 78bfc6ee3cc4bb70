// Package cainiao talks to the Cainiao pickup gateway: every request is a
// signed JSON envelope POSTed to the configured gateway URL.
package cainiao

import (
	"crypto/md5" //nolint:gosec // the gateway protocol mandates MD5
	"encoding/base64"
)

// Sign returns base64(md5(logisticsInterface + appSecret)). The input must be
// the exact bytes sent as logistics_interface.
func Sign(logisticsInterface, appSecret string) string {
	sum := md5.Sum([]byte(logisticsInterface + appSecret)) //nolint:gosec
	return base64.StdEncoding.EncodeToString(sum[:])
}
