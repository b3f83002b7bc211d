package v1

import (
	"github.com/gogf/gf/v2/frame/g"
)

// HealthReq is the liveness probe.
type HealthReq struct {
	g.Meta `path:"/v1/health" method:"get" tags:"ops"`
}

type HealthRes struct {
	g.Meta    `mime:"application/json"`
	Status    string `json:"status"`
	Service   string `json:"service"`
	Version   string `json:"version"`
	Timestamp string `json:"timestamp" dc:"server time, RFC3339"`
}
