// Package routes wires handlers to paths and decides which routes sit
// behind the auth gateway.
package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/ihc-secops/officer/internal/interfaces/httpserver/handlers/clusterhandler"
	"github.com/ihc-secops/officer/internal/interfaces/httpserver/handlers/oauthhandler"
)

// Routes encapsulates route registration for the gateway.
type Routes struct {
	oauth   *oauthhandler.Handler
	cluster *clusterhandler.Handler
	gateway gin.HandlerFunc
}

// NewRoutes builds the route set. gateway is the auth middleware applied to
// every privileged route.
func NewRoutes(oauth *oauthhandler.Handler, cluster *clusterhandler.Handler, gateway gin.HandlerFunc) *Routes {
	return &Routes{oauth: oauth, cluster: cluster, gateway: gateway}
}

// Register attaches all routes. The OAuth endpoints stay public; everything
// else requires a valid API key or session token.
func (r *Routes) Register(router gin.IRouter) {
	router.GET("/gitlab/auth", r.oauth.Login)
	router.GET("/gitlab/callback", r.oauth.Callback)

	guarded := router.Group("/", r.gateway)
	guarded.GET("/get-pod", r.cluster.GetPods)
	guarded.POST("/isolate-pod", r.cluster.IsolatePod)
	guarded.POST("/unisolate-pod", r.cluster.UnisolatePod)
	guarded.POST("/restart-service-deployment", r.cluster.RestartServiceDeployment)
	guarded.POST("/deploy-service", r.cluster.DeployService)
}
