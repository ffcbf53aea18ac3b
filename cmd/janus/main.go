// Janus is a hierarchical policy decision engine.
//
// It evaluates structured requests (subject, action, resource,
// attributes) against declarative YAML policies organized into
// precedence tiers (enterprise, domain, agent) and returns an
// authoritative allow/deny/require-approval verdict with a full
// per-policy trace.
//
// Usage:
//
//	# Start the decision service
//	janus serve --config config.yaml
//
//	# Evaluate one request from the command line
//	janus evaluate --policies ./policies \
//	    --subject finance-agent-1 --action data.export \
//	    --resource external --attr data_classification=pii
//
//	# Validate policy files
//	janus lint ./policies
//
//	# List the loaded policy set
//	janus policies --dir ./policies
//
//	# Show version information
//	janus version
package main

func main() {
	Execute()
}
