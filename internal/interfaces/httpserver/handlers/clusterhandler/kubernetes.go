// Package clusterhandler exposes the privileged cluster actions over HTTP.
// Every route here sits behind the auth gateway.
package clusterhandler

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/ihc-secops/officer/internal/infrastructure/cluster"
	"github.com/ihc-secops/officer/internal/infrastructure/metrics"
	"github.com/ihc-secops/officer/internal/interfaces/httpserver/requests"
	"github.com/ihc-secops/officer/internal/interfaces/httpserver/responses"
)

// isolationRules lists the Falco rules that trigger pod isolation. Alerts for
// any other rule are acknowledged and skipped.
var isolationRules = map[string]struct{}{
	"network_scan_process_in_container": {},
}

// Handler executes cluster actions on behalf of authorized callers.
type Handler struct {
	actions cluster.Actions
	timeout time.Duration
	logger  zerolog.Logger
}

// NewHandler creates the cluster handler. timeout bounds every cluster call.
func NewHandler(actions cluster.Actions, timeout time.Duration, logger zerolog.Logger) *Handler {
	return &Handler{actions: actions, timeout: timeout, logger: logger}
}

func (h *Handler) actionContext(c *gin.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(c.Request.Context(), h.timeout)
}

// GetPods godoc
// @Summary List pods in a namespace
// @Description Returns name, status and age for every pod in the namespace.
// @Tags Cluster
// @Produce json
// @Param namespace query string true "Namespace to list"
// @Success 200 {array} cluster.PodInfo
// @Failure 400 {object} responses.ErrorResponse
// @Failure 500 {object} responses.ErrorResponse
// @Security ApiKeyAuth
// @Router /get-pod [get]
func (h *Handler) GetPods(c *gin.Context) {
	var query requests.GetPodQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		responses.HandleErrorWithStatus(c, http.StatusBadRequest, err, "Missing namespace parameter")
		return
	}

	ctx, cancel := h.actionContext(c)
	defer cancel()

	pods, err := h.actions.ListPods(ctx, query.Namespace)
	metrics.RecordClusterAction("list_pods", err)
	if err != nil {
		h.logger.Error().Err(err).Str("namespace", query.Namespace).Msg("list pods failed")
		responses.HandleErrorWithStatus(c, http.StatusInternalServerError, err, "Failed to list pods")
		return
	}

	c.JSON(http.StatusOK, pods)
}

// IsolatePod godoc
// @Summary Isolate a pod flagged by a Falco alert
// @Description Labels the pod named in the alert's output_fields so the deny-all network policy selects it. Alerts for unhandled rules are skipped.
// @Tags Cluster
// @Accept json
// @Produce json
// @Param alert body requests.FalcoAlert true "Falco webhook payload"
// @Success 200 {object} responses.StatusResponse
// @Failure 400 {object} responses.ErrorResponse
// @Failure 500 {object} responses.ErrorResponse
// @Security ApiKeyAuth
// @Router /isolate-pod [post]
func (h *Handler) IsolatePod(c *gin.Context) {
	var alert requests.FalcoAlert
	if err := c.ShouldBindJSON(&alert); err != nil {
		responses.HandleErrorWithStatus(c, http.StatusBadRequest, err, "Invalid alert payload")
		return
	}

	if _, handled := isolationRules[alert.Rule]; !handled {
		h.logger.Info().Str("rule", alert.Rule).Msg("alert rule not handled, skipping")
		c.JSON(http.StatusOK, responses.StatusResponse{Status: "Skipped, no action taken"})
		return
	}

	namespace, pod := alert.PodCoordinates()

	ctx, cancel := h.actionContext(c)
	defer cancel()

	err := h.actions.IsolatePod(ctx, namespace, pod)
	metrics.RecordClusterAction("isolate_pod", err)
	if err != nil {
		h.logger.Error().Err(err).
			Str("namespace", namespace).
			Str("pod", pod).
			Msg("pod isolation failed")
		responses.HandleErrorWithStatus(c, http.StatusInternalServerError, err, "Failed to isolate pod")
		return
	}

	h.logger.Warn().
		Str("rule", alert.Rule).
		Str("namespace", namespace).
		Str("pod", pod).
		Msg("pod isolated")
	c.JSON(http.StatusOK, responses.StatusResponse{Status: "Pod isolated succesfully"})
}

// UnisolatePod godoc
// @Summary Remove the isolation label from a pod
// @Tags Cluster
// @Accept json
// @Produce json
// @Param request body requests.UnisolatePodRequest true "Pod to free"
// @Success 200 {object} responses.StatusResponse
// @Failure 400 {object} responses.ErrorResponse
// @Failure 500 {object} responses.ErrorResponse
// @Security ApiKeyAuth
// @Router /unisolate-pod [post]
func (h *Handler) UnisolatePod(c *gin.Context) {
	var req requests.UnisolatePodRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		responses.HandleErrorWithStatus(c, http.StatusBadRequest, err, "Invalid request payload")
		return
	}

	ctx, cancel := h.actionContext(c)
	defer cancel()

	err := h.actions.UnisolatePod(ctx, req.Namespace, req.PodName)
	metrics.RecordClusterAction("unisolate_pod", err)
	if err != nil {
		h.logger.Error().Err(err).
			Str("namespace", req.Namespace).
			Str("pod", req.PodName).
			Msg("pod unisolation failed")
		responses.HandleErrorWithStatus(c, http.StatusInternalServerError, err, "Failed to unisolate pod")
		return
	}

	h.logger.Info().
		Str("namespace", req.Namespace).
		Str("pod", req.PodName).
		Msg("pod freed")
	c.JSON(http.StatusOK, responses.StatusResponse{Status: "Pod is being freed"})
}

// RestartServiceDeployment godoc
// @Summary Roll a deployment's pods
// @Description Stamps the pod template annotation so the controller rolls new pods, same as kubectl rollout restart.
// @Tags Cluster
// @Accept json
// @Produce json
// @Param request body requests.RestartServiceRequest true "Deployment to restart"
// @Success 200 {object} responses.StatusResponse
// @Failure 400 {object} responses.ErrorResponse
// @Failure 500 {object} responses.ErrorResponse
// @Security ApiKeyAuth
// @Router /restart-service-deployment [post]
func (h *Handler) RestartServiceDeployment(c *gin.Context) {
	var req requests.RestartServiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		responses.HandleErrorWithStatus(c, http.StatusBadRequest, err, "Invalid request payload")
		return
	}

	ctx, cancel := h.actionContext(c)
	defer cancel()

	err := h.actions.RestartDeployment(ctx, req.Namespace, req.ServiceDeployment)
	metrics.RecordClusterAction("restart_deployment", err)
	if err != nil {
		h.logger.Error().Err(err).
			Str("namespace", req.Namespace).
			Str("deployment", req.ServiceDeployment).
			Msg("deployment restart failed")
		responses.HandleErrorWithStatus(c, http.StatusInternalServerError, err, "Failed to restart deployment")
		return
	}

	h.logger.Info().
		Str("namespace", req.Namespace).
		Str("deployment", req.ServiceDeployment).
		Msg("deployment restarted")
	c.JSON(http.StatusOK, responses.StatusResponse{
		Status: fmt.Sprintf("Deployment %s restarted", req.ServiceDeployment),
	})
}

// DeployService godoc
// @Summary Deploy a new version of a service
// @Description Retags the named container's image to the requested version and patches the deployment.
// @Tags Cluster
// @Accept json
// @Produce json
// @Param request body requests.DeployServiceRequest true "Deployment, container and version"
// @Success 200 {object} responses.StatusResponse
// @Failure 400 {object} responses.ErrorResponse
// @Failure 500 {object} responses.ErrorResponse
// @Security ApiKeyAuth
// @Router /deploy-service [post]
func (h *Handler) DeployService(c *gin.Context) {
	var req requests.DeployServiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		responses.HandleErrorWithStatus(c, http.StatusBadRequest, err, "Invalid request payload")
		return
	}

	ctx, cancel := h.actionContext(c)
	defer cancel()

	err := h.actions.DeployService(ctx, req.Namespace, req.ServiceDeployment, req.ContainerName, req.Version)
	metrics.RecordClusterAction("deploy_service", err)
	if err != nil {
		h.logger.Error().Err(err).
			Str("namespace", req.Namespace).
			Str("deployment", req.ServiceDeployment).
			Str("container", req.ContainerName).
			Str("version", req.Version).
			Msg("service deploy failed")
		responses.HandleErrorWithStatus(c, http.StatusInternalServerError, err, "Failed to deploy service")
		return
	}

	h.logger.Info().
		Str("namespace", req.Namespace).
		Str("deployment", req.ServiceDeployment).
		Str("version", req.Version).
		Msg("service deployed")
	c.JSON(http.StatusOK, responses.StatusResponse{
		Status: fmt.Sprintf("Service %s deployed!", req.ServiceDeployment),
	})
}
