package review

// FilterMinSeverity returns a copy of r keeping only issues at min severity
// or worse, with summary counts recomputed. Files stay in the report even
// when all their issues are filtered out.
func FilterMinSeverity(r *Report, min Severity) *Report {
	out := *r
	out.Files = nil
	out.IssuesFound = 0
	out.SecurityIssues = 0
	out.QualityIssues = 0
	out.PerformanceIssues = 0
	out.SeverityBreakdown = make(map[string]int)

	for _, fr := range r.Files {
		kept := &FileReport{
			Path:     fr.Path,
			Language: fr.Language,
			Metrics:  fr.Metrics,
		}
		for _, is := range fr.Issues {
			if is.Severity > min {
				continue
			}
			kept.Issues = append(kept.Issues, is)
			out.IssuesFound++
			out.SeverityBreakdown[is.Severity.String()]++
			switch is.Category {
			case CategorySecurity:
				out.SecurityIssues++
			case CategoryPerformance:
				out.PerformanceIssues++
			default:
				out.QualityIssues++
			}
		}
		out.Files = append(out.Files, kept)
	}

	return &out
}
