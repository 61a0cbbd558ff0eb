package event

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/cenkalti/backoff/v4"
	corev1 "k8s.io/api/core/v1"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/apimachinery/pkg/runtime/schema"
	"k8s.io/client-go/dynamic"
	typedcorev1 "k8s.io/client-go/kubernetes/typed/core/v1"

	"rca-decider/internal/common"
)

// Recorder records Kubernetes events against a fixed involved object
type Recorder interface {
	Normal(ctx context.Context, reason, message string, args ...interface{}) error
	Warning(ctx context.Context, reason, message string, args ...interface{}) error
}

// KubeClientInterface is an interface that defines only the necessary methods of a Kubernetes clientset.
// This interface implements both real clientsets and fake clientsets.
type KubeClientInterface interface {
	CoreV1() typedcorev1.CoreV1Interface
}

// InvolvedObject names the object events are attached to, e.g. the decider's own Deployment
type InvolvedObject struct {
	APIVersion string
	Kind       string
	// Resource is the plural resource name used to resolve UID, e.g. "deployments"
	Resource  string
	Namespace string
	Name      string
}

// Config holds event recorder settings
type Config struct {
	Object         InvolvedObject
	Component      string
	MaxElapsedTime time.Duration
}

// EventInfo implements Recorder
type EventInfo struct {
	config        Config
	kubeClient    KubeClientInterface
	dynamicClient dynamic.Interface
	logger        *slog.Logger
	now           func() time.Time
}

// NewRecorder creates an event recorder. When dynamicClient is nil the involved
// object is referenced by name only.
func NewRecorder(config Config, kubeClient KubeClientInterface, dynamicClient dynamic.Interface, logger *slog.Logger) *EventInfo {
	if logger == nil {
		logger = common.NopLogger()
	}
	if config.Component == "" {
		config.Component = "rca-decider"
	}
	if config.MaxElapsedTime <= 0 {
		config.MaxElapsedTime = 15 * time.Second
	}
	return &EventInfo{
		config:        config,
		kubeClient:    kubeClient,
		dynamicClient: dynamicClient,
		logger:        logger.With("component", "event"),
		now:           time.Now,
	}
}

// Normal creates a normal event
func (e *EventInfo) Normal(ctx context.Context, reason, message string, args ...interface{}) error {
	return e.record(ctx, corev1.EventTypeNormal, reason, fmt.Sprintf(message, args...))
}

// Warning creates a warning event
func (e *EventInfo) Warning(ctx context.Context, reason, message string, args ...interface{}) error {
	return e.record(ctx, corev1.EventTypeWarning, reason, fmt.Sprintf(message, args...))
}

func (e *EventInfo) record(ctx context.Context, eventType, reason, message string) error {
	if err := common.CheckContext(ctx, "recording event"); err != nil {
		return err
	}

	obj := e.config.Object
	b := backoff.NewExponentialBackOff()
	b.MaxElapsedTime = e.config.MaxElapsedTime

	operation := func() error {
		if ctx.Err() != nil {
			return backoff.Permanent(fmt.Errorf("context canceled during event creation: %w", ctx.Err()))
		}

		ref, err := e.involvedObject(ctx)
		if err != nil {
			return err
		}

		now := metav1.NewTime(e.now())
		event := &corev1.Event{
			ObjectMeta: metav1.ObjectMeta{
				Name:      fmt.Sprintf("%s.%x", obj.Name, e.now().UnixNano()),
				Namespace: obj.Namespace,
			},
			InvolvedObject: ref,
			Reason:         reason,
			Message:        message,
			Type:           eventType,
			FirstTimestamp: now,
			LastTimestamp:  now,
			Count:          1,
			Source: corev1.EventSource{
				Component: e.config.Component,
			},
		}

		if _, err := e.kubeClient.CoreV1().Events(obj.Namespace).Create(ctx, event, metav1.CreateOptions{}); err != nil {
			e.logger.Debug("retrying event creation", "reason", reason, "error", err)
			return err
		}
		return nil
	}

	if err := backoff.Retry(operation, backoff.WithContext(b, ctx)); err != nil {
		e.logger.Error("failed to create event after retries", "reason", reason, "error", err)
		return fmt.Errorf("failed to create %s event %s: %w", eventType, reason, err)
	}

	e.logger.Debug("event recorded", "type", eventType, "reason", reason)
	return nil
}

// involvedObject builds the object reference, resolving UID and ResourceVersion when possible
func (e *EventInfo) involvedObject(ctx context.Context) (corev1.ObjectReference, error) {
	obj := e.config.Object
	ref := corev1.ObjectReference{
		APIVersion: obj.APIVersion,
		Kind:       obj.Kind,
		Namespace:  obj.Namespace,
		Name:       obj.Name,
	}
	if e.dynamicClient == nil || obj.Resource == "" {
		return ref, nil
	}

	gv, err := schema.ParseGroupVersion(obj.APIVersion)
	if err != nil {
		return ref, backoff.Permanent(fmt.Errorf("invalid apiVersion %q: %w", obj.APIVersion, err))
	}

	target, err := e.dynamicClient.Resource(gv.WithResource(obj.Resource)).
		Namespace(obj.Namespace).
		Get(ctx, obj.Name, metav1.GetOptions{})
	if err != nil {
		return ref, fmt.Errorf("failed to get involved object %s/%s: %w", obj.Namespace, obj.Name, err)
	}

	ref.UID = target.GetUID()
	ref.ResourceVersion = target.GetResourceVersion()
	return ref, nil
}
