// Command seedrows generates sample evaluation form rows and either writes
// them as a CSV export or posts them to a running campusboard /ingest
// endpoint. Useful for local development and demos.
package main

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"flag"
	"fmt"
	"math/rand"
	"net/http"
	"os"
	"time"
)

var (
	count  = flag.Int("count", 25, "number of rows to generate")
	out    = flag.String("out", "", "write rows as CSV to this path instead of posting")
	target = flag.String("target", "http://localhost:9090/ingest", "ingest endpoint to post to")
	seed   = flag.Int64("seed", 0, "random seed (0 uses current time)")
)

var headers = []string{
	"Timestamp",
	"Campus Name",
	"Campus Location",
	"Your Name",
	"Your Email",
	"Gratitude [Level]",
	"Leadership [Level]",
	"Problem Solving [Level]",
	"Communication [Level]",
	"Teamwork [Level]",
	"Ownership [Level]",
	"Any general feedback?",
	"Is there anything urgent or pressing that requires immediate attention at this campus?",
	"Does anything need to be escalated to senior leadership?",
}

var campuses = []struct{ name, location string }{
	{"Pune Central", "Pune"},
	{"Dharavi", "Mumbai"},
	{"Salt Lake", "Kolkata"},
	{"Whitefield", "Bengaluru"},
	{"Gachibowli", "Hyderabad"},
}

var resolverNames = []string{
	"Asha Patil",
	"Ravi Kumar",
	"Meena Iyer",
	"John D Souza",
	"Fatima Shaikh",
}

var urgentSamples = []string{
	"",
	"no",
	"NA",
	"Water leakage in the main classroom needs immediate attention",
	"Power backup has been down for two days",
}

var escalationSamples = []string{
	"",
	"none",
	"Repeated staff shortage should go to senior leadership",
}

func main() {
	flag.Parse()

	s := *seed
	if s == 0 {
		s = time.Now().UnixNano()
	}
	rng := rand.New(rand.NewSource(s))

	rows := make([]map[string]string, 0, *count)
	for i := 0; i < *count; i++ {
		rows = append(rows, generateRow(rng, i))
	}

	if *out != "" {
		if err := writeCSV(*out, rows); err != nil {
			fmt.Fprintln(os.Stderr, "seedrows:", err)
			os.Exit(1)
		}
		fmt.Printf("wrote %d rows to %s\n", len(rows), *out)
		return
	}

	if err := postRows(*target, rows); err != nil {
		fmt.Fprintln(os.Stderr, "seedrows:", err)
		os.Exit(1)
	}
	fmt.Printf("posted %d rows to %s\n", len(rows), *target)
}

func generateRow(rng *rand.Rand, i int) map[string]string {
	campus := campuses[rng.Intn(len(campuses))]
	resolver := resolverNames[rng.Intn(len(resolverNames))]
	ts := time.Now().AddDate(0, 0, -rng.Intn(14)).Format("2006-01-02 15:04:05")

	row := map[string]string{
		"Timestamp":             ts,
		"Campus Name":           campus.name,
		"Campus Location":       campus.location,
		"Your Name":             resolver,
		"Any general feedback?": "Visit went well overall",
	}
	// Leave some emails blank to exercise derivation from names.
	if i%3 != 0 {
		row["Your Email"] = ""
	}
	for _, h := range headers[5:11] {
		// A few rows carry malformed level text on purpose.
		if rng.Intn(10) == 0 {
			row[h] = "n/a"
			continue
		}
		row[h] = fmt.Sprintf("Level %d", 1+rng.Intn(7))
	}
	row[headers[12]] = urgentSamples[rng.Intn(len(urgentSamples))]
	row[headers[13]] = escalationSamples[rng.Intn(len(escalationSamples))]
	return row
}

func writeCSV(path string, rows []map[string]string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create output: %w", err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(headers); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	for _, row := range rows {
		record := make([]string, len(headers))
		for i, h := range headers {
			record[i] = row[h]
		}
		if err := w.Write(record); err != nil {
			return fmt.Errorf("write row: %w", err)
		}
	}
	w.Flush()
	return w.Error()
}

func postRows(target string, rows []map[string]string) error {
	body, err := json.Marshal(map[string]any{"rows": rows})
	if err != nil {
		return fmt.Errorf("marshal rows: %w", err)
	}

	resp, err := http.Post(target, "application/json", bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("post rows: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("ingest returned status %s", resp.Status)
	}
	var res map[string]any
	if err := json.NewDecoder(resp.Body).Decode(&res); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	fmt.Printf("batch result: %v\n", res)
	return nil
}
