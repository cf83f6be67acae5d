package knowledge

import (
	"bufio"
	"strings"

	"gopkg.in/yaml.v3"
)

type frontmatter struct {
	UpdatedAt string `yaml:"updated_at"`
	Count     int    `yaml:"count"`
}

func parseFrontmatter(contents string) (frontmatter, string, bool) {
	sc := bufio.NewScanner(strings.NewReader(contents))
	if !sc.Scan() {
		return frontmatter{}, contents, false
	}
	if strings.TrimSpace(sc.Text()) != "---" {
		return frontmatter{}, contents, false
	}

	var yamlLines []string
	foundEnd := false
	var bodyLines []string
	for sc.Scan() {
		line := sc.Text()
		if !foundEnd {
			if strings.TrimSpace(line) == "---" {
				foundEnd = true
				continue
			}
			yamlLines = append(yamlLines, line)
			continue
		}
		bodyLines = append(bodyLines, line)
	}
	if !foundEnd {
		return frontmatter{}, contents, false
	}

	var fm frontmatter
	if err := yaml.Unmarshal([]byte(strings.Join(yamlLines, "\n")), &fm); err != nil {
		return frontmatter{}, strings.Join(bodyLines, "\n"), false
	}
	return fm, strings.Join(bodyLines, "\n"), true
}

func renderFrontmatter(fm frontmatter) string {
	data, _ := yaml.Marshal(fm)
	body := strings.TrimSpace(string(data))
	if body != "" {
		body += "\n"
	}
	return "---\n" + body + "---\n"
}
