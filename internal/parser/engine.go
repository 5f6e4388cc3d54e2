package parser

import (
	"github.com/molchan/harvester/internal/entity"
	"github.com/molchan/harvester/internal/gateway"
)

type Engine interface {
	Name() string
	Process(*gateway.Page) (*entity.PageResult, error)
}
