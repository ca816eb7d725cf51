package probe

import (
	"context"
	"fmt"
	"time"

	corev1 "k8s.io/api/core/v1"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/apimachinery/pkg/apis/meta/v1/unstructured"
	"k8s.io/apimachinery/pkg/runtime/schema"
	"k8s.io/client-go/dynamic"
	"k8s.io/client-go/kubernetes"
	"k8s.io/client-go/tools/clientcmd"
)

// KubeClients bundles the typed and dynamic Kubernetes clients shared by
// the kube probes. Probes hold the interfaces so tests can inject fakes.
type KubeClients struct {
	Clientset kubernetes.Interface
	Dynamic   dynamic.Interface
}

// NewKubeClients builds clients from a kubeconfig file.
func NewKubeClients(kubeconfigPath string) (*KubeClients, error) {
	cfg, err := clientcmd.BuildConfigFromFlags("", kubeconfigPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load kubeconfig: %w", err)
	}

	clientset, err := kubernetes.NewForConfig(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create kubernetes client: %w", err)
	}

	dyn, err := dynamic.NewForConfig(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create dynamic client: %w", err)
	}

	return &KubeClients{Clientset: clientset, Dynamic: dyn}, nil
}

// KubePods checks that pods matching a label selector exist and are all
// Ready.
type KubePods struct {
	Name      string        `mapstructure:"-"`
	Clients   *KubeClients  `mapstructure:"-"`
	Namespace string        `mapstructure:"namespace"`
	Selector  string        `mapstructure:"selector"`
	MinReady  int           `mapstructure:"min_ready"`
	Timeout   time.Duration `mapstructure:"timeout"`
}

func (p *KubePods) ID() string { return p.Name }

func (p *KubePods) Describe() string {
	return fmt.Sprintf("pods %q ready in %s", p.Selector, p.Namespace)
}

func (p *KubePods) Invoke(ctx context.Context) Outcome {
	return run(ctx, p.Timeout, func(ctx context.Context) Outcome {
		pods, err := p.Clients.Clientset.CoreV1().Pods(p.Namespace).List(ctx, metav1.ListOptions{
			LabelSelector: p.Selector,
		})
		if err != nil {
			return FailErr(err)
		}

		if len(pods.Items) == 0 {
			return Failf("no pods match selector %q in %s", p.Selector, p.Namespace)
		}

		ready := 0
		for i := range pods.Items {
			if isPodReady(&pods.Items[i]) {
				ready++
			}
		}

		minReady := p.MinReady
		if minReady == 0 {
			minReady = len(pods.Items)
		}
		if ready < minReady {
			return Failf("%d/%d pods ready (need %d)", ready, len(pods.Items), minReady)
		}

		return Passf("%d/%d pods ready", ready, len(pods.Items))
	})
}

// KubeNodes checks that at least MinReady cluster nodes report the Ready
// condition.
type KubeNodes struct {
	Name     string        `mapstructure:"-"`
	Clients  *KubeClients  `mapstructure:"-"`
	MinReady int           `mapstructure:"min_ready"`
	Timeout  time.Duration `mapstructure:"timeout"`
}

func (p *KubeNodes) ID() string { return p.Name }

func (p *KubeNodes) Describe() string {
	return fmt.Sprintf("at least %d nodes Ready", p.minReady())
}

func (p *KubeNodes) Invoke(ctx context.Context) Outcome {
	return run(ctx, p.Timeout, func(ctx context.Context) Outcome {
		nodes, err := p.Clients.Clientset.CoreV1().Nodes().List(ctx, metav1.ListOptions{})
		if err != nil {
			return FailErr(err)
		}

		ready := 0
		for i := range nodes.Items {
			if isNodeReady(&nodes.Items[i]) {
				ready++
			}
		}

		if ready < p.minReady() {
			return Failf("%d/%d nodes ready (need %d)", ready, len(nodes.Items), p.minReady())
		}
		return Passf("%d/%d nodes ready", ready, len(nodes.Items))
	})
}

func (p *KubeNodes) minReady() int {
	if p.MinReady == 0 {
		return 1
	}
	return p.MinReady
}

// KubeEndpoints checks that a service has at least one ready endpoint
// address.
type KubeEndpoints struct {
	Name      string        `mapstructure:"-"`
	Clients   *KubeClients  `mapstructure:"-"`
	Namespace string        `mapstructure:"namespace"`
	Service   string        `mapstructure:"service"`
	Timeout   time.Duration `mapstructure:"timeout"`
}

func (p *KubeEndpoints) ID() string { return p.Name }

func (p *KubeEndpoints) Describe() string {
	return fmt.Sprintf("service %s/%s has endpoints", p.Namespace, p.Service)
}

func (p *KubeEndpoints) Invoke(ctx context.Context) Outcome {
	return run(ctx, p.Timeout, func(ctx context.Context) Outcome {
		endpoints, err := p.Clients.Clientset.CoreV1().Endpoints(p.Namespace).Get(ctx, p.Service, metav1.GetOptions{})
		if err != nil {
			return FailErr(err)
		}

		addresses := 0
		for _, subset := range endpoints.Subsets {
			addresses += len(subset.Addresses)
		}
		if addresses == 0 {
			return Failf("service %s/%s has no ready endpoints", p.Namespace, p.Service)
		}
		return Passf("%d endpoint address(es)", addresses)
	})
}

// KubeCondition checks an arbitrary API object's status condition via the
// dynamic client. This covers CRD-backed readiness such as cert-manager
// Certificate Ready without a typed client per API group.
type KubeCondition struct {
	Name      string        `mapstructure:"-"`
	Clients   *KubeClients  `mapstructure:"-"`
	Group     string        `mapstructure:"group"`
	Version   string        `mapstructure:"version"`
	Resource  string        `mapstructure:"resource"`
	Namespace string        `mapstructure:"namespace"`
	Object    string        `mapstructure:"object"`
	Condition string        `mapstructure:"condition"`
	Timeout   time.Duration `mapstructure:"timeout"`
}

func (p *KubeCondition) ID() string { return p.Name }

func (p *KubeCondition) Describe() string {
	return fmt.Sprintf("%s %s/%s condition %s", p.Resource, p.Namespace, p.Object, p.condType())
}

func (p *KubeCondition) Invoke(ctx context.Context) Outcome {
	return run(ctx, p.Timeout, func(ctx context.Context) Outcome {
		gvr := schema.GroupVersionResource{Group: p.Group, Version: p.Version, Resource: p.Resource}
		obj, err := p.Clients.Dynamic.Resource(gvr).Namespace(p.Namespace).Get(ctx, p.Object, metav1.GetOptions{})
		if err != nil {
			return FailErr(err)
		}

		status, reason, found := objectCondition(obj, p.condType())
		if !found {
			return Failf("condition %s not reported on %s/%s", p.condType(), p.Namespace, p.Object)
		}
		if status != string(corev1.ConditionTrue) {
			if reason != "" {
				return Failf("condition %s is %s: %s", p.condType(), status, reason)
			}
			return Failf("condition %s is %s", p.condType(), status)
		}
		return Passf("condition %s is True", p.condType())
	})
}

func (p *KubeCondition) condType() string {
	if p.Condition == "" {
		return "Ready"
	}
	return p.Condition
}

// objectCondition extracts status and reason of a named condition from an
// unstructured object's status.conditions list.
func objectCondition(obj *unstructured.Unstructured, condType string) (status, reason string, found bool) {
	conditions, ok, err := unstructured.NestedSlice(obj.Object, "status", "conditions")
	if err != nil || !ok {
		return "", "", false
	}

	for _, c := range conditions {
		cond, ok := c.(map[string]interface{})
		if !ok {
			continue
		}
		if t, _ := cond["type"].(string); t != condType {
			continue
		}
		status, _ = cond["status"].(string)
		reason, _ = cond["reason"].(string)
		return status, reason, true
	}
	return "", "", false
}

// isPodReady checks if a pod is Running with the Ready condition True.
func isPodReady(pod *corev1.Pod) bool {
	if pod.Status.Phase != corev1.PodRunning {
		return false
	}
	for _, condition := range pod.Status.Conditions {
		if condition.Type == corev1.PodReady &&
			condition.Status == corev1.ConditionTrue {
			return true
		}
	}
	return false
}

// isNodeReady checks the node Ready condition.
func isNodeReady(node *corev1.Node) bool {
	for _, condition := range node.Status.Conditions {
		if condition.Type == corev1.NodeReady &&
			condition.Status == corev1.ConditionTrue {
			return true
		}
	}
	return false
}
