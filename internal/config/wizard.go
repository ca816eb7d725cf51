package config

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/huh"
)

// WizardAnswers holds the interactive init prompts' results.
type WizardAnswers struct {
	Name       string
	Host       string
	URL        string
	Kubeconfig string
	DiskCheck  bool
}

// RunWizard collects a starter plan interactively.
func RunWizard() (*WizardAnswers, error) {
	answers := &WizardAnswers{DiskCheck: true}

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Deployment name").
				Description("Shown in report headers").
				Placeholder("my-deployment").
				Value(&answers.Name),
			huh.NewInput().
				Title("Target host").
				Description("Host or IP probed for connectivity and SSH").
				Value(&answers.Host),
		),
		huh.NewGroup(
			huh.NewInput().
				Title("Health endpoint URL").
				Description("HTTP endpoint checked for service readiness (optional)").
				Value(&answers.URL),
			huh.NewInput().
				Title("Kubeconfig path").
				Description("Enables Kubernetes checks (optional)").
				Value(&answers.Kubeconfig),
			huh.NewConfirm().
				Title("Include advisory disk space check?").
				Value(&answers.DiskCheck),
		),
	)

	if err := form.Run(); err != nil {
		return nil, fmt.Errorf("wizard aborted: %w", err)
	}

	if answers.Name == "" {
		answers.Name = "my-deployment"
	}
	if answers.Host == "" {
		answers.Host = "10.0.0.10"
	}
	return answers, nil
}

// GeneratePlan renders a starter plan for the collected answers.
func GeneratePlan(a *WizardAnswers) string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "name: %s\n", a.Name)
	if a.Kubeconfig != "" {
		fmt.Fprintf(&sb, "kubeconfig: %s\n", a.Kubeconfig)
	}
	sb.WriteString(`settings:
  concurrency: 5
  timeout: 30m

phases:
  - name: connectivity
    short_circuit: true
    checks:
      - name: ssh port open
        type: tcp
        params:
`)
	fmt.Fprintf(&sb, "          host: %s\n", a.Host)
	sb.WriteString(`          port: 22
        retry:
          tiers:
            - delay: 5s
              attempts: 10
            - delay: 10s
              attempts: 10
            - delay: 15s
          max_attempts: 40
        remediation: "Check that the VM finished booting and the firewall allows port 22 ({{.Detail}})"

  - name: authentication
    depends_on: connectivity
    short_circuit: true
    checks:
      - name: ssh shell responds
        type: ssh
        params:
`)
	fmt.Fprintf(&sb, "          host: %s\n", a.Host)
	sb.WriteString(`          user: deploy
          private_key: ~/.ssh/id_ed25519
        retry:
          tiers:
            - delay: 5s
              attempts: 6
        remediation: "Verify the deploy key is installed on {{.Probe}}"
`)

	if a.Kubeconfig != "" {
		sb.WriteString(`
  - name: infrastructure health
    depends_on: authentication
    checks:
      - name: nodes ready
        type: kube_nodes
        params:
          min_ready: 1
        retry:
          tiers:
            - delay: 10s
              attempts: 18
      - name: system pods ready
        type: kube_pods
        params:
          namespace: kube-system
          selector: ""
        retry:
          tiers:
            - delay: 10s
              attempts: 18
`)
	}

	if a.URL != "" {
		sb.WriteString(`
  - name: service readiness
`)
		if a.Kubeconfig != "" {
			sb.WriteString("    depends_on: infrastructure health\n")
		}
		sb.WriteString(`    checks:
      - name: health endpoint
        type: http
        params:
`)
		fmt.Fprintf(&sb, "          url: %s\n", a.URL)
		sb.WriteString(`          expected_status: [200]
        retry:
          tiers:
            - delay: 5s
              attempts: 12
`)
	}

	if a.DiskCheck {
		sb.WriteString(`
  - name: capacity
    checks:
      - name: disk space
        type: disk_space
        advisory: true
        params:
          path: /
          max_used_percent: 85
        remediation: "Free up disk space or grow the volume ({{.Detail}})"
`)
	}

	return sb.String()
}

// DefaultAnswers returns the non-interactive fallback used when stdin is
// not a terminal.
func DefaultAnswers() *WizardAnswers {
	return &WizardAnswers{
		Name:      "my-deployment",
		Host:      "10.0.0.10",
		URL:       "http://10.0.0.10:8080/healthz",
		DiskCheck: true,
	}
}
