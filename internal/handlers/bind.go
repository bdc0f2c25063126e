package handlers

import (
	"encoding/json"

	"github.com/gin-gonic/gin"
)

// bindStrictJSON decodes the request body into a typed request struct and
// rejects any field the struct does not declare. This is how the field
// whitelists on the PATCH endpoints are enforced: the struct IS the
// whitelist.
func bindStrictJSON(c *gin.Context, dst interface{}) error {
	decoder := json.NewDecoder(c.Request.Body)
	decoder.DisallowUnknownFields()
	return decoder.Decode(dst)
}
