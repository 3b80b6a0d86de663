package shell

const helpText = `Commands (examples included!):

OPEN / SAVE
  OPEN <file>                 e.g.  OPEN db.txt
  SAVE                        (saves back to last OPEN file)
  SAVE <file>                 e.g.  SAVE db.txt

VIEW
  SHOW ALL                    list all rows
  SHOW ALL SORT BY ID ASC     or DESC
  SHOW ALL SORT BY MARK ASC   or DESC
  SHOW SUMMARY                show count/average/highest/lowest

ADD / LOOKUP / EDIT / REMOVE
  INSERT ID=<int> Name="..." Programme="..." Mark=<float>
    e.g. INSERT ID=2501066 Name="Brian Goh" Programme="Digital Supply Chain" Mark=88.8
  QUERY ID=<int>              e.g. QUERY ID=2501066
  UPDATE ID=<int> [Name=...] [Programme=...] [Mark=<float>]
    e.g. UPDATE ID=2501066 Programme="Game Development" Mark=95.5
  DELETE ID=<int>             comes with Y/N confirmation

SEARCH
  FIND NAME "..."         e.g. FIND NAME "brian"
  FIND PROGRAMME "..."    e.g. FIND PROGRAMME "Digital Supply Chain"

IMPORT / EXPORT / BACKUP
  IMPORT CSV <file.csv>       Header in CSV must be: ID,Name,Programme,Mark
  IMPORT PEBBLE <dir>         load records from a pebble archive
  EXPORT CSV <file.csv>       Open in Excel/Sheets to verify
  EXPORT SQL <file.sql>       SQLite/MySQL compatible INSERTs
  EXPORT SQLITE <file.db>     write the table into a SQLite database
  EXPORT PEBBLE <dir>         write the table into a pebble archive
  BACKUP                      writes <stem>.bak-YYYYMMDD-HHMMSS.txt

  Files ending in .gz or .zst are compressed transparently.

OTHER
  HELP
  EXIT
`
