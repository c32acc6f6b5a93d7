package utils

import (
	"errors"
	"strconv"

	"github.com/gin-gonic/gin"
)

func paramID(ctx *gin.Context, name string) (uint, error) {
	raw := ctx.Param(name)

	if raw == "" {
		return 0, errors.New(name + " not found")
	}

	id, err := strconv.ParseUint(raw, 10, 32)

	if err != nil {
		return 0, errors.New("invalid " + name)
	}

	return uint(id), nil
}

func GetApplicationID(ctx *gin.Context) (uint, error) {
	return paramID(ctx, "application_id")
}

func GetStepID(ctx *gin.Context) (uint, error) {
	return paramID(ctx, "step_id")
}

func GetApplicationStepID(ctx *gin.Context) (uint, uint, error) {
	applicationID, err := GetApplicationID(ctx)

	if err != nil {
		return 0, 0, err
	}

	stepID, err := GetStepID(ctx)

	if err != nil {
		return 0, 0, err
	}

	return applicationID, stepID, nil
}

func GetPlatformID(ctx *gin.Context) (uint, error) {
	return paramID(ctx, "platform_id")
}

func GetDefinitionID(ctx *gin.Context) (uint, error) {
	return paramID(ctx, "definition_id")
}
