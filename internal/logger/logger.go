package logger

import (
	"encoding/json"
	"log"
	"os"
)

func Init() {
	log.SetOutput(os.Stdout)
	log.SetFlags(0)
	Info("logger initialized", nil)
}

func write(level, msg string, fields map[string]any) {
	entry := map[string]any{
		"level": level,
		"msg":   msg,
	}
	if len(fields) > 0 {
		entry["fields"] = fields
	}
	line, err := json.Marshal(entry)
	if err != nil {
		log.Printf(`{"level":"%s","msg":"%s"}`, level, msg)
		return
	}
	log.Print(string(line))
}

func Info(msg string, fields map[string]any) {
	write("INFO", msg, fields)
}

func Warn(msg string, fields map[string]any) {
	write("WARN", msg, fields)
}

func Error(msg string, fields map[string]any) {
	write("ERROR", msg, fields)
}

func Fatal(msg string, fields map[string]any) {
	write("FATAL", msg, fields)
	os.Exit(1)
}
