package api

import (
	"github.com/gin-gonic/gin"

	"github.com/kbukum/voicekit/database/query"
	"github.com/kbukum/voicekit/server"
	"github.com/kbukum/voicekit/validation"
)

func respondError(c *gin.Context, err error) {
	server.RespondWithError(c, err)
}

func respondPage[T any](c *gin.Context, res *query.Result[T]) {
	data := res.Data
	if data == nil {
		data = []T{}
	}
	server.RespondOKWithMeta(c, data, res.Pagination)
}

// bindJSON decodes and validates the body into req.
func bindJSON(c *gin.Context, req any) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		respondError(c, validation.New().Custom(false, "body", "must be a valid JSON object").Validate())
		return false
	}
	if err := validation.Validate(req); err != nil {
		respondError(c, err)
		return false
	}
	return true
}

func pathID(c *gin.Context) (uint, bool) {
	id, err := validation.ParseID("id", c.Param("id"))
	if err != nil {
		respondError(c, err)
		return 0, false
	}
	return id, true
}
