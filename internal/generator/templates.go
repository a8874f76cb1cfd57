package generator

// Template is a parameterized question pattern. Difficulty runs from 2
// (fundamentals) to 4 (expert). Params maps each placeholder name to its
// candidate substitution values.
type Template struct {
	Text       string
	Difficulty int
	Focus      []string
	Params     map[string][]string
}

// Bank maps a topic to its hand-authored templates.
type Bank map[string][]Template

// DefaultBank returns the built-in template banks for the three assessment
// topics. The bank is constructed once at startup and treated as immutable.
func DefaultBank() Bank {
	return Bank{
		"sta": {
			{
				Text:       "Your design has {violation_type} violations of {violation_amount}ps on {num_paths} critical paths. The design is running at {frequency}MHz. Analyze the root causes and propose {num_solutions} specific solutions with expected improvement estimates.",
				Difficulty: 3,
				Focus:      []string{"timing_analysis", "problem_solving"},
				Params: map[string][]string{
					"violation_type":   {"setup", "hold", "max_transition"},
					"violation_amount": {"20", "50", "100", "150", "200"},
					"num_paths":        {"10", "25", "50", "100", "200"},
					"frequency":        {"500", "800", "1000", "1500", "2000"},
					"num_solutions":    {"3", "4", "5"},
				},
			},
			{
				Text:       "Explain the concept of {concept} in static timing analysis. How does it impact {impact_area} and what are the industry-standard approaches to handle it in {technology_node} designs?",
				Difficulty: 2,
				Focus:      []string{"concepts", "industry_knowledge"},
				Params: map[string][]string{
					"concept":         {"clock jitter", "OCV", "useful skew", "clock latency", "timing corners"},
					"impact_area":     {"setup timing", "hold timing", "power consumption", "area optimization"},
					"technology_node": {"7nm", "5nm", "3nm", "advanced nodes"},
				},
			},
			{
				Text:       "You're analyzing a {design_type} with {num_domains} clock domains running at different frequencies ({freq_list}). Describe your approach to handle clock domain crossings and ensure timing closure across all interfaces.",
				Difficulty: 4,
				Focus:      []string{"multi_domain", "advanced_concepts"},
				Params: map[string][]string{
					"design_type": {"SoC", "CPU", "GPU", "AI accelerator"},
					"num_domains": {"3", "4", "5", "6"},
					"freq_list":   {"100MHz/500MHz/1GHz", "200MHz/800MHz/1.5GHz", "50MHz/1GHz/2GHz"},
				},
			},
		},
		"cts": {
			{
				Text:       "Design a clock tree for a {design_size} design with {num_flops} flip-flops distributed across {die_size}. The target skew is {target_skew}ps and you have {buffer_types} buffer types available. Explain your tree topology choice and optimization strategy.",
				Difficulty: 3,
				Focus:      []string{"tree_design", "optimization"},
				Params: map[string][]string{
					"design_size":  {"large-scale", "medium-scale", "complex"},
					"num_flops":    {"10000", "25000", "50000", "100000"},
					"die_size":     {"5mm x 5mm", "10mm x 10mm", "15mm x 15mm"},
					"target_skew":  {"25", "50", "75", "100"},
					"buffer_types": {"3", "4", "5", "6"},
				},
			},
			{
				Text:       "Your clock tree has {power_consumption}mW power consumption, which is {percentage}% of total chip power. Propose {num_techniques} specific techniques to reduce clock power while maintaining {skew_constraint}ps skew constraint.",
				Difficulty: 4,
				Focus:      []string{"power_optimization", "constraints"},
				Params: map[string][]string{
					"power_consumption": {"50", "100", "150", "200"},
					"percentage":        {"15", "20", "25", "30", "35"},
					"num_techniques":    {"3", "4", "5"},
					"skew_constraint":   {"30", "50", "75"},
				},
			},
		},
		"signoff": {
			{
				Text:       "Your design failed {check_type} with {num_violations} violations. The violations are distributed as: {violation_dist}. Create a systematic debugging and resolution plan with priority ordering and estimated effort.",
				Difficulty: 3,
				Focus:      []string{"debugging", "project_management"},
				Params: map[string][]string{
					"check_type":     {"DRC", "LVS", "Antenna", "Metal Density"},
					"num_violations": {"50", "100", "200", "500"},
					"violation_dist": {
						"70% spacing, 20% width, 10% via",
						"50% density, 30% spacing, 20% antenna",
						"60% LVS nets, 25% devices, 15% properties",
					},
				},
			},
			{
				Text:       "Perform signoff analysis for a {design_type} in {technology} process. The design has {power_domains} power domains and {io_count} I/Os. List all required signoff checks and create a verification plan with timeline and responsibilities.",
				Difficulty: 4,
				Focus:      []string{"signoff_flow", "planning"},
				Params: map[string][]string{
					"design_type":   {"automotive SoC", "mobile processor", "IoT chip", "high-performance CPU"},
					"technology":    {"7nm FinFET", "5nm", "3nm GAA"},
					"power_domains": {"2", "3", "4", "5"},
					"io_count":      {"100", "200", "500", "1000"},
				},
			},
		},
	}
}

// DefaultFallback returns the static plain-text question lists used when a
// topic has no template bank.
func DefaultFallback() map[string][]string {
	return map[string][]string{
		"sta": {
			"What is Static Timing Analysis and why is it critical in modern chip design?",
			"Explain setup and hold time violations. How do you debug and fix them?",
			"What is clock skew and how does it impact timing closure?",
			"Describe the concept of timing corners and their importance in analysis.",
			"How do you handle timing analysis for multiple clock domains?",
		},
		"cts": {
			"What is Clock Tree Synthesis and what are its main objectives?",
			"Explain different clock tree topologies and when to use each.",
			"How do you optimize clock trees for power consumption?",
			"What is useful skew and how can it help timing closure?",
			"Describe challenges in CTS for high-frequency designs.",
		},
		"signoff": {
			"What are the main signoff checks required before tape-out?",
			"Explain DRC violations and systematic approaches to fix them.",
			"What is LVS and how do you debug LVS mismatches?",
			"Describe IR drop analysis and mitigation techniques.",
			"How do you perform timing signoff for multi-corner analysis?",
		},
	}
}
