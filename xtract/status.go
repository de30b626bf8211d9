package xtract

import "github.com/RyanBlaney/sonido-xtract/algorithms/common"

// Status is the outcome code carried by every feature error
type Status = common.Status

const (
	Success               = common.Success
	MallocFailed          = common.MallocFailed
	BadArgv               = common.BadArgv
	BadVectorSize         = common.BadVectorSize
	BadState              = common.BadState
	DenormalFound         = common.DenormalFound
	NoResult              = common.NoResult
	FeatureNotImplemented = common.FeatureNotImplemented
	ArgumentError         = common.ArgumentError
)

// StatusOf returns the Status carried by err, Success for nil
func StatusOf(err error) Status {
	return common.StatusOf(err)
}
