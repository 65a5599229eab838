package schemas

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io/fs"
	"log"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v5"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Ключи зарегистрированных событий
const (
	ListingIngestedEventKey     = "ListingIngestedEvent/1.0.0"
	CredentialRequestedEventKey = "CredentialRequestedEvent/1.0.0"
	CredentialAnsweredEventKey  = "CredentialAnsweredEvent/1.0.0"
)

var compiledSchemas = make(map[string]*jsonschema.Schema)

func init() {
	compiler := jsonschema.NewCompiler()
	compiler.AssertFormat = true

	// Сначала добавляем все схемы как ресурсы, чтобы они могли
	// ссылаться друг на друга через `$ref`
	err := fs.WalkDir(SchemasFS, "events", func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() && strings.HasSuffix(path, ".json") {
			file, openErr := SchemasFS.Open(path)
			if openErr != nil {
				return openErr
			}
			defer file.Close()
			if err := compiler.AddResource(path, file); err != nil {
				log.Fatalf("failed to add schema resource %s: %v", path, err)
			}
		}
		return nil
	})
	if err != nil {
		log.Fatalf("error walking and adding schema resources: %v", err)
	}

	// Снова обходим для компиляции и регистрации
	err = fs.WalkDir(SchemasFS, "events", func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() && strings.HasSuffix(path, ".json") {
			schema, err := compiler.Compile(path)
			if err != nil {
				log.Printf("WARNING: could not compile schema %s: %v. Skipping.", path, err)
				return nil
			}

			key := generateKeyFromPath(path)
			compiledSchemas[key] = schema
		}
		return nil
	})
	if err != nil {
		log.Fatalf("error walking and compiling schemas: %v", err)
	}
}

// generateKeyFromPath преобразует путь вида "events/listing-ingested/v1.json"
// в ключ вида "ListingIngestedEvent/1.0.0".
func generateKeyFromPath(path string) string {
	trimmedPath := strings.TrimPrefix(path, "events/")
	trimmedPath = strings.TrimSuffix(trimmedPath, ".json")

	parts := strings.Split(trimmedPath, "/")
	if len(parts) != 2 {
		return "" // Некорректный путь
	}

	caser := cases.Title(language.English)

	eventNameParts := strings.Split(parts[0], "-")
	for i, p := range eventNameParts {
		eventNameParts[i] = caser.String(p)
	}
	eventName := strings.Join(eventNameParts, "") + "Event"

	version := strings.TrimPrefix(parts[1], "v") + ".0.0"

	return eventName + "/" + version
}

// Validate проверяет JSON-полезную нагрузку против зарегистрированной схемы.
// Ошибка валидации означает, что сообщение сформировано некорректно и
// не подлежит повторной обработке.
func Validate(eventKey string, payload []byte) error {
	schema, ok := compiledSchemas[eventKey]
	if !ok {
		return fmt.Errorf("schemas: unknown event key %q", eventKey)
	}

	// Декодируем с UseNumber, как того требует библиотека валидации
	decoder := json.NewDecoder(bytes.NewReader(payload))
	decoder.UseNumber()
	var decoded interface{}
	if err := decoder.Decode(&decoded); err != nil {
		return fmt.Errorf("schemas: payload is not valid JSON: %w", err)
	}

	if err := schema.Validate(decoded); err != nil {
		return fmt.Errorf("schemas: payload does not match %s: %w", eventKey, err)
	}
	return nil
}
